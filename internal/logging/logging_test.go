package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestJSONHandlerRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewJSONHandler(&buf, "info"))

	logger.Info("login", "token", "abc123", "Password", "hunter2", "user_id", "u-1")

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, redacted, out["token"])
	assert.Equal(t, redacted, out["Password"])
	assert.Equal(t, "u-1", out["user_id"])
	assert.NotContains(t, buf.String(), "abc123")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(NewJSONHandler(&a, "info"), NewJSONHandler(&b, "error")))

	logger.Info("only first")
	logger.Error("both")

	assert.Contains(t, a.String(), "only first")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only first")
	assert.Contains(t, b.String(), "both")
}

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := setupDB(t)
	h := NewPGHandler(db, time.Hour)

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("verification email failed",
		"action", "register",
		"user_id", "u-1",
		"error", errors.New("smtp down"),
		"reset_token", "secret-value",
	)
	h.Stop()

	require.Eventually(t, func() bool {
		var n int64
		db.Model(&models.SystemLog{}).Count(&n)
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)

	var row models.SystemLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "req-1", row.RequestID)
	assert.Equal(t, "register", row.Action)
	assert.Equal(t, "smtp down", row.Error)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)
	assert.NotContains(t, string(row.Extra), "secret-value")
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
}

func TestPurgeOlderThan(t *testing.T) {
	db := setupDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -40), Level: "ERROR"},
		{ID: uuid.New(), Timestamp: now, Level: "ERROR"},
	}).Error)

	n, err := PurgeOlderThan(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

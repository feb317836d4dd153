package database

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateAndPing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(db))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.SystemLog{}))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))

	require.NoError(t, Close(db))
	assert.Error(t, Ping(db))
}

func TestLoggerOmitsBoundValues(t *testing.T) {
	var buf bytes.Buffer
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: NewLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })

	var u models.User
	err = db.Where("email = ?", "alice@example.com").First(&u).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not logged")

	err = db.Table("missing_table").Where("password_reset_token = ?", "secret-reset-token").Find(&u).Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "password_reset_token = ?")
	assert.NotContains(t, buf.String(), "secret-reset-token")
}

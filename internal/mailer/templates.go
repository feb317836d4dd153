package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var actionHTML = template.Must(template.New("action").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #ddd; border-radius: 10px; max-width: 600px; margin: auto;">
  <h2 style="color: #333;">Hello <strong>{{.Name}}</strong>,</h2>
  {{range .Lines}}<p style="font-size: 16px; color: #555;">{{.}}</p>
  {{end}}<p style="text-align: center;">
    <a href="{{.Link}}" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; font-size: 16px; display: inline-block;">{{.Button}}</a>
  </p>
  {{range .Footer}}<p style="font-size: 14px; color: #777;">{{.}}</p>
  {{end}}</div>
`))

type actionView struct {
	Name   string
	Lines  []string
	Link   string
	Button string
	Footer []string
}

func VerificationEmail(to, name, link string) (Message, error) {
	html, err := render(actionView{
		Name:   name,
		Lines:  []string{"Please verify your email by clicking the button below:"},
		Link:   link,
		Button: "Verify Email",
		Footer: []string{"If you didn't request this, you can ignore this email.", "Thank you!"},
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  "Verify Your Email Address",
		TextBody: fmt.Sprintf("Hello %s,\n\nPlease verify your email using the following link:\n\n%s\n\nThank you!", name, link),
		HTMLBody: html,
	}, nil
}

func PasswordResetEmail(to, name, link string, validMinutes int) (Message, error) {
	html, err := render(actionView{
		Name: name,
		Lines: []string{
			"We received a request to reset your password.",
			"Click the button below to reset your password:",
		},
		Link:   link,
		Button: "Reset Password",
		Footer: []string{
			fmt.Sprintf("This link will expire in %d minutes.", validMinutes),
			"If you did not request this, you can ignore this email.",
			"Thank you!",
		},
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Reset Your Password",
		TextBody: fmt.Sprintf("Hello %s,\n\nWe received a request to reset your password. Please use the link below to set a new password:\n\n%s\n\nThis link is valid for %d minutes.\n\nIf you did not request this, please ignore this email.\n\nThank you!",
			name, link, validMinutes),
		HTMLBody: html,
	}, nil
}

func render(v actionView) (string, error) {
	var buf bytes.Buffer
	if err := actionHTML.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

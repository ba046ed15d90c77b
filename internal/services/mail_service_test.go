package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cogniseguros/internal/config"
)

func TestSMTPMailService_RendersVerificationCode(t *testing.T) {
	svc, err := NewSMTPMailService(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com", FromName: "Cogniseguros Módulo"},
		MailBranding{AppName: "Cogniseguros", CodeTTL: 10 * time.Minute})
	require.NoError(t, err)
	s := svc.(*smtpMailService)

	html, text, err := s.renderEmail(EmailData{
		Title:   "Código de verificación",
		Intro:   verificationIntro(10 * time.Minute),
		Code:    "482913",
		AppName: "Cogniseguros",
		Year:    2024,
	})
	require.NoError(t, err)
	assert.Contains(t, html, `<div class="code">482913</div>`)
	assert.Contains(t, text, "Código: 482913")
	assert.Contains(t, text, "10 minutos")
	assert.NotContains(t, html, `class="btn"`)

	msg := string(s.buildMessage("ana@example.com", "Tu código", html, text))
	assert.Contains(t, msg, "To: ana@example.com\r\n")
	assert.Contains(t, msg, "From: =?UTF-8?b?")
	assert.Contains(t, msg, "<no-reply@example.com>")
	assert.Contains(t, msg, "Subject: =?UTF-8?q?Tu_c=C3=B3digo?=\r\n")
	assert.Equal(t, 3, strings.Count(msg, "--alt_"))
}

func TestLogMailService_HidesCodeOutsideDevelopment(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	require.NoError(t, NewLogMailService(zap.New(core), false).SendVerificationCode("ana@example.com", "123456"))
	require.NoError(t, NewLogMailService(zap.New(core), true).SendVerificationCode("ana@example.com", "654321"))

	entries := logs.All()
	require.Len(t, entries, 2)
	_, hasCode := entries[0].ContextMap()["code"]
	assert.False(t, hasCode)
	assert.Equal(t, "654321", entries[1].ContextMap()["code"])
}

func TestSMTPMailService_RendersWelcomeWithAppLink(t *testing.T) {
	svc, err := NewSMTPMailService(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"},
		MailBranding{AppName: "Cogniseguros", AppBaseURL: "https://crm.example.com"})
	require.NoError(t, err)
	s := svc.(*smtpMailService)

	html, text, err := s.renderEmail(s.welcomeData("  Ana "))
	require.NoError(t, err)
	assert.Contains(t, html, "Hola Ana, tu cuenta está lista")
	assert.Contains(t, html, `<a class="btn" href="https://crm.example.com">Ingresar</a>`)
	assert.Contains(t, html, `<a href="https://crm.example.com">https://crm.example.com</a></div>`)
	assert.Contains(t, text, "Cogniseguros (c) ")
	assert.Contains(t, text, " https://crm.example.com\n")

	data := s.welcomeData("")
	assert.True(t, strings.HasPrefix(data.Intro, "Hola, "))
}

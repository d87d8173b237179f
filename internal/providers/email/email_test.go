package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/reservaspro/reservaspro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBookingCompleted(t *testing.T) {
	subject, body, err := Render(TemplateBookingCompleted, map[string]any{
		"client_name":        "Ana",
		"service_name":       "Haircut",
		"xp_awarded":         100,
		"new_level":          "Silver",
		"reward_description": "5% off <b>next</b> visit",
		"business_name":      "Studio Uno",
	})
	require.NoError(t, err)
	assert.Equal(t, "You reached Silver at Studio Uno", subject)
	assert.Contains(t, body, "100 XP")
	assert.Contains(t, body, "&lt;b&gt;next&lt;/b&gt;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestSubjectOverride(t *testing.T) {
	subject, _, err := Render(TemplateBookingCreated, map[string]any{"subject": "Custom"})
	require.NoError(t, err)
	assert.Equal(t, "Custom", subject)
}

func TestSMTPSendBuildsMessage(t *testing.T) {
	p := NewSMTP(Config{Host: "mail.local", Port: 2525, From: "Studio <hi@studio.test>"})
	var gotAddr, gotFrom string
	var gotMsg []byte
	p.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotMsg = addr, from, msg
		return nil
	}

	err := p.SendTemplate(context.Background(), []string{"ana@example.com"}, TemplateBookingCreated, map[string]any{
		"client_name":  "Ana",
		"service_name": "Haircut",
		"starts_at":    "2026-03-01 10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, "hi@studio.test", gotFrom)
	assert.Contains(t, string(gotMsg), "Subject: Your booking with ReservasPro")

	assert.Error(t, p.Send(context.Background(), nil, "s", "b"))
}

func TestResendSend(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"em_1"}`))
	}))
	defer srv.Close()

	p := NewResend(ResendConfig{APIKey: "key-123", BaseURL: srv.URL, From: "hi@studio.test"})
	require.NoError(t, p.Send(context.Background(), []string{"ana@example.com"}, "Hello", "<p>hi</p>"))
	assert.Equal(t, "hi@studio.test", got.From)
	assert.Equal(t, []string{"ana@example.com"}, got.To)
}

func TestResendSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"invalid from"}`))
	}))
	defer srv.Close()

	p := NewResend(ResendConfig{APIKey: "k", BaseURL: srv.URL, From: "x"})
	err := p.Send(context.Background(), []string{"a@b.co"}, "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from")
}

func TestNewFromConfigSelectsProvider(t *testing.T) {
	cfg := config.Config{}
	cfg.Email.Provider = "smtp"
	assert.Equal(t, "smtp", NewFromConfig(cfg).Name())
	cfg.Email.Provider = "resend"
	assert.Equal(t, "resend", NewFromConfig(cfg).Name())
	cfg.Email.Provider = ""
	assert.Equal(t, "noop", NewFromConfig(cfg).Name())
}

package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type ResendConfig struct {
	APIKey  string
	BaseURL string
	From    string
}

// ResendProvider delivers through the Resend HTTP API.
type ResendProvider struct {
	from   string
	client *resty.Client
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func NewResend(cfg ResendConfig) *ResendProvider {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ResendProvider{from: cfg.From, client: client}
}

func (p *ResendProvider) Name() string { return "resend" }

func (p *ResendProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	if len(to) == 0 {
		return errors.New("email has no recipients")
	}

	var apiErr resendError
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(resendRequest{From: p.from, To: to, Subject: subject, HTML: htmlBody}).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend api error: status %d: %s", resp.StatusCode(), apiErr.Message)
	}
	return nil
}

func (p *ResendProvider) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]any) error {
	subject, body, err := Render(templateName, data)
	if err != nil {
		return err
	}
	return p.Send(ctx, to, subject, body)
}

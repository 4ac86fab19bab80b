package notifierrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bookswap/util/httpx"
)

type httpRepo struct {
	baseURL string
	client  *http.Client
}

// NewHTTP posts notification events to an external webhook endpoint.
func NewHTTP(baseURL string) Repo {
	return &httpRepo{baseURL: baseURL, client: httpx.Client()}
}

func (r *httpRepo) ExchangeRequested(ctx context.Context, recipientEmail string, ev ExchangeEvent) error {
	return r.post(ctx, "exchange.requested", recipientEmail, ev)
}

func (r *httpRepo) ExchangeResponded(ctx context.Context, recipientEmail string, ev ExchangeEvent) error {
	return r.post(ctx, "exchange.responded", recipientEmail, ev)
}

func (r *httpRepo) PasswordReset(ctx context.Context, recipientEmail, resetToken string) error {
	return r.post(ctx, "password.reset", recipientEmail, map[string]string{"token": resetToken})
}

func (r *httpRepo) post(ctx context.Context, event, recipient string, payload any) error {
	body := map[string]any{
		"event":     event,
		"recipient": recipient,
		"payload":   payload,
	}
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/notifications", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notifier: %s", resp.Status)
	}
	return nil
}

type noopRepo struct{}

// NewNoop is used when no notifier endpoint is configured.
func NewNoop() Repo { return noopRepo{} }

func (noopRepo) ExchangeRequested(context.Context, string, ExchangeEvent) error { return nil }
func (noopRepo) ExchangeResponded(context.Context, string, ExchangeEvent) error { return nil }
func (noopRepo) PasswordReset(context.Context, string, string) error            { return nil }

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer sends the password recovery code.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string) error
}

type EmailService struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
}

func NewEmailService(apiKey, from string) *EmailService {
	return &EmailService{
		apiKey:     apiKey,
		from:       from,
		endpoint:   resendEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *EmailService) SendPasswordReset(ctx context.Context, to, code string) error {
	if s.apiKey == "" {
		return fmt.Errorf("email delivery is not configured")
	}

	payload := map[string]interface{}{
		"from":    s.from,
		"to":      []string{to},
		"subject": "FitTrack - Password reset code",
		"html":    buildResetEmail(code),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend api error %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func buildResetEmail(code string) string {
	return `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family:Arial,sans-serif;background:#f4f4f4;padding:20px;">
  <div style="max-width:480px;margin:0 auto;background:#fff;border-radius:8px;padding:32px;">
    <h2 style="color:#333;">Reset your FitTrack password</h2>
    <p>Use this 6 digit code to choose a new password:</p>
    <div style="text-align:center;margin:24px 0;">
      <span style="font-size:36px;font-weight:bold;letter-spacing:8px;color:#6366f1;">` + code + `</span>
    </div>
    <p>The code expires in <strong>15 minutes</strong>.</p>
    <p>If you did not ask for a reset you can ignore this email.</p>
  </div>
</body>
</html>`
}

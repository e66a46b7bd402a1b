package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const DefaultTerraURL = "https://api.tryterra.co/v2"

// WearableProvider is the vendor surface the sync service needs.
type WearableProvider interface {
	GenerateWidgetSession(ctx context.Context, referenceID string) (domain.WidgetSession, error)
	UserInfo(ctx context.Context, vendorUserID string) (json.RawMessage, error)
	Activities(ctx context.Context, vendorUserID, start, end string) ([]gjson.Result, error)
	Sleep(ctx context.Context, vendorUserID, start, end string) ([]gjson.Result, error)
	Daily(ctx context.Context, vendorUserID, start, end string) ([]gjson.Result, error)
	Deauthenticate(ctx context.Context, vendorUserID string) error
}

type TerraClient struct {
	baseURL    string
	devID      string
	apiKey     string
	appURL     string
	httpClient *http.Client
}

var _ WearableProvider = (*TerraClient)(nil)

func NewTerraClient(baseURL, devID, apiKey, appURL string) *TerraClient {
	if baseURL == "" {
		baseURL = DefaultTerraURL
	}
	return &TerraClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		devID:      devID,
		apiKey:     apiKey,
		appURL:     strings.TrimRight(appURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *TerraClient) GenerateWidgetSession(ctx context.Context, referenceID string) (domain.WidgetSession, error) {
	payload := map[string]interface{}{
		"reference_id":              referenceID,
		"language":                  "en",
		"auth_success_redirect_url": c.appURL + "/connect-device/success",
		"auth_failure_redirect_url": c.appURL + "/connect-device/failure",
	}

	res, err := c.do(ctx, http.MethodPost, "/auth/generateWidgetSession", nil, payload, "failed to generate widget session")
	if err != nil {
		return domain.WidgetSession{}, err
	}
	return domain.WidgetSession{
		WidgetURL: res.Get("url").String(),
		SessionID: res.Get("session_id").String(),
	}, nil
}

func (c *TerraClient) UserInfo(ctx context.Context, vendorUserID string) (json.RawMessage, error) {
	res, err := c.do(ctx, http.MethodGet, "/userInfo", url.Values{"user_id": {vendorUserID}}, nil, "failed to get user devices")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(res.Raw), nil
}

func (c *TerraClient) Activities(ctx context.Context, vendorUserID, start, end string) ([]gjson.Result, error) {
	return c.records(ctx, "/activity", vendorUserID, start, end, "failed to get activity data")
}

func (c *TerraClient) Sleep(ctx context.Context, vendorUserID, start, end string) ([]gjson.Result, error) {
	return c.records(ctx, "/sleep", vendorUserID, start, end, "failed to get sleep data")
}

func (c *TerraClient) Daily(ctx context.Context, vendorUserID, start, end string) ([]gjson.Result, error) {
	return c.records(ctx, "/daily", vendorUserID, start, end, "failed to get daily data")
}

func (c *TerraClient) Deauthenticate(ctx context.Context, vendorUserID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/auth/deauthenticateUser", url.Values{"user_id": {vendorUserID}}, nil, "failed to disconnect user")
	return err
}

func (c *TerraClient) records(ctx context.Context, path, vendorUserID, start, end, failure string) ([]gjson.Result, error) {
	query := url.Values{
		"user_id":    {vendorUserID},
		"start_date": {start},
		"end_date":   {end},
		"to_webhook": {"false"},
	}
	res, err := c.do(ctx, http.MethodGet, path, query, nil, failure)
	if err != nil {
		return nil, err
	}
	return res.Get("data").Array(), nil
}

func (c *TerraClient) do(ctx context.Context, method, path string, query url.Values, payload interface{}, failure string) (gjson.Result, error) {
	if c.apiKey == "" || c.devID == "" {
		return gjson.Result{}, domain.UpstreamError("wearable integration is not configured", nil)
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("dev-id", c.devID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, domain.UpstreamError(failure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, domain.UpstreamError(failure, err)
	}

	if resp.StatusCode >= 400 {
		message := failure
		if m := gjson.GetBytes(respBody, "message"); m.Exists() && m.String() != "" {
			message = m.String()
		}
		return gjson.Result{}, domain.UpstreamError(message, fmt.Errorf("terra api error %d: %s", resp.StatusCode, string(respBody)))
	}

	return gjson.ParseBytes(respBody), nil
}

// VerifyTerraSignature checks a "t=<unix>,v1=<hex hmac>" signature header
// against the raw request body.
func VerifyTerraSignature(secret, header string, body []byte) bool {
	var timestamp, signature string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			signature = v
		}
	}
	if timestamp == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "." + string(body)))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

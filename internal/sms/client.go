// Package sms delivers verification codes through the SMS provider's HTTP API.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// Client posts template SMS requests to the provider. The provider responds
// with a JSON body whose Code field is "OK" on accepted delivery; anything
// else is treated as a failed send.
type Client struct {
	APIKey       string
	BaseURL      string
	SignName     string
	TemplateCode string
	HTTPClient   *http.Client
}

// NewClient returns a client for the given provider credentials. baseURL is
// required; signName and templateCode identify the registered SMS template.
func NewClient(apiKey, baseURL, signName, templateCode string) *Client {
	return &Client{
		APIKey:       apiKey,
		BaseURL:      baseURL,
		SignName:     signName,
		TemplateCode: templateCode,
		HTTPClient:   &http.Client{Timeout: defaultTimeout},
	}
}

type sendRequest struct {
	PhoneNumbers  string            `json:"phone_numbers"`
	SignName      string            `json:"sign_name"`
	TemplateCode  string            `json:"template_code"`
	TemplateParam map[string]string `json:"template_param"`
	OutID         string            `json:"out_id"`
}

type sendResponse struct {
	Code      string `json:"Code"`
	Message   string `json:"Message"`
	RequestID string `json:"RequestId"`
	BizID     string `json:"BizId"`
}

// SendCode sends the verification code to phone in a single attempt.
// Does not log or retry. Any transport failure, non-200 status, malformed
// body, or provider Code other than "OK" is an error.
func (c *Client) SendCode(ctx context.Context, phone, code string) error {
	if c.APIKey == "" {
		return fmt.Errorf("sms: API key not configured")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("sms: base URL not configured")
	}
	body := sendRequest{
		PhoneNumbers:  phone,
		SignName:      c.SignName,
		TemplateCode:  c.TemplateCode,
		TemplateParam: map[string]string{"code": code},
		OutID:         uuid.New().String(),
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("sms: malformed provider response: %w", err)
	}
	if out.Code != "OK" {
		return fmt.Errorf("sms: provider rejected send code=%q message=%q request_id=%s", out.Code, out.Message, out.RequestID)
	}
	return nil
}

// Package univcert wraps the univcert.com university email certification API.
package univcert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

const defaultBaseURL = "https://univcert.com/api/v1"

// Client calls the univcert certification endpoints.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClientFromEnv builds a client using UNIVCERT_API_KEY.
func NewClientFromEnv() *Client {
	return &Client{
		APIKey:  os.Getenv("UNIVCERT_API_KEY"),
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) post(path string, payload map[string]interface{}) error {
	payload["key"] = c.APIKey

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("univcert request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("univcert response decode failed: %w", err)
	}

	if !parsed.Success {
		if parsed.Message == "" {
			parsed.Message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("univcert rejected request: %s", parsed.Message)
	}
	return nil
}

// RequestCertification asks univcert to send a verification code to the
// given university email address.
func (c *Client) RequestCertification(email, univName string) error {
	return c.post("/certify", map[string]interface{}{
		"email":      email,
		"univName":   univName,
		"univ_check": true,
	})
}

// ConfirmCode checks the code the applicant received by email.
func (c *Client) ConfirmCode(email, univName string, code int) error {
	return c.post("/certifycode", map[string]interface{}{
		"email":    email,
		"univName": univName,
		"code":     code,
	})
}

// ClearCertification resets the certified state for an address so it can be
// verified again.
func (c *Client) ClearCertification(email string) error {
	return c.post("/clear/"+email, map[string]interface{}{})
}

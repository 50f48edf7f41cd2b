// Package certverify is a Go client for the certverify HTTP API.
package certverify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotAuthenticated = errors.New("client has no access token; call Login first")
	ErrNotFound         = errors.New("certificate not found")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string            `json:"code"`
	Message    string            `json:"error"`
	Details    map[string]string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("certverify: %d %s", e.StatusCode, e.Message)
}

// User is the public profile returned by Login.
type User struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
}

// Metadata holds optional certificate attributes.
type Metadata struct {
	Duration        string   `json:"duration,omitempty"`
	Credits         *float64 `json:"credits,omitempty"`
	IssuerSignature string   `json:"issuerSignature,omitempty"`
}

// IssueRequest is the payload for Issue. Dates may be RFC 3339 timestamps or
// YYYY-MM-DD dates.
type IssueRequest struct {
	RecipientName  string    `json:"recipientName"`
	RecipientEmail string    `json:"recipientEmail"`
	CourseName     string    `json:"courseName"`
	Issuer         string    `json:"issuer"`
	IssueDate      string    `json:"issueDate,omitempty"`
	ExpiryDate     string    `json:"expiryDate,omitempty"`
	Grade          string    `json:"grade,omitempty"`
	Metadata       *Metadata `json:"metadata,omitempty"`
}

// Certificate is the full record visible to signed-in users.
type Certificate struct {
	ID             string     `json:"_id"`
	CertificateID  string     `json:"certificateId"`
	RecipientName  string     `json:"recipientName"`
	RecipientEmail string     `json:"recipientEmail"`
	CourseName     string     `json:"courseName"`
	IssueDate      time.Time  `json:"issueDate"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty"`
	Issuer         string     `json:"issuer"`
	Grade          string     `json:"grade,omitempty"`
	Status         string     `json:"status"`
	Hash           string     `json:"hash"`
	Metadata       *Metadata  `json:"metadata,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	// QRCode is only set on the result of Issue.
	QRCode string `json:"qrCode,omitempty"`
}

// Verification is the public verification result.
type Verification struct {
	Valid       bool   `json:"valid"`
	Message     string `json:"message"`
	Certificate *struct {
		CertificateID string     `json:"certificateId,omitempty"`
		RecipientName string     `json:"recipientName"`
		CourseName    string     `json:"courseName"`
		IssueDate     time.Time  `json:"issueDate"`
		ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
		Issuer        string     `json:"issuer"`
		Grade         string     `json:"grade,omitempty"`
		Status        string     `json:"status"`
	} `json:"certificate,omitempty"`
}

// Client talks to a certverify server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
	user  *User
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// SetToken sets the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// User returns the profile from the last successful Login.
func (c *Client) User() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Register creates an issuer account.
func (c *Client) Register(ctx context.Context, username, password, organization string) error {
	body := map[string]string{"username": username, "password": password, "organization": organization}
	return c.do(ctx, http.MethodPost, "/api/register", false, body, nil)
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", false, body, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.user = &resp.User
	c.mu.Unlock()
	return &resp.User, nil
}

// Issue creates a certificate. The result carries a QR code data URL.
func (c *Client) Issue(ctx context.Context, req *IssueRequest) (*Certificate, error) {
	var cert Certificate
	if err := c.do(ctx, http.MethodPost, "/api/certificates", true, req, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// List returns all certificates, newest first.
func (c *Client) List(ctx context.Context) ([]Certificate, error) {
	var certs []Certificate
	if err := c.do(ctx, http.MethodGet, "/api/certificates", true, nil, &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

// Revoke revokes a certificate and returns the updated record.
func (c *Client) Revoke(ctx context.Context, certificateID string) (*Certificate, error) {
	var resp struct {
		Certificate Certificate `json:"certificate"`
	}
	path := "/api/certificates/" + url.PathEscape(certificateID) + "/revoke"
	if err := c.do(ctx, http.MethodPut, path, true, nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &resp.Certificate, nil
}

// Verify runs the public verification check. An unknown certificate yields ErrNotFound.
func (c *Client) Verify(ctx context.Context, certificateID string) (*Verification, error) {
	var v Verification
	if err := c.do(ctx, http.MethodGet, "/api/verify/"+url.PathEscape(certificateID), false, nil, &v); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token == "" {
			return ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			// The verification endpoint answers 404 with {valid, message}.
			var alt struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(data, &alt) == nil && alt.Message != "" {
				apiErr.Message = alt.Message
			} else {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hoshichaam/authportal/internal/models"
)

// AuthClient talks to the external authentication service.
type AuthClient struct {
	BaseURL string
	Client  *http.Client
}

// NewAuthClient builds a client; timeout 0 leaves the transport's own behaviour in place.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	if baseURL == "" {
		baseURL = "http://localhost:8084"
	}
	return &AuthClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// AuthCheckResult is a successful /authcheck exchange.
type AuthCheckResult struct {
	Redirect   string
	SetCookies []string // raw Set-Cookie values to relay to the browser
}

// AuthCheck posts credentials to /authcheck, forwarding cookieHeader.
func (c *AuthClient) AuthCheck(ctx context.Context, email, password, cookieHeader string) (AuthCheckResult, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	resp, err := c.postForm(ctx, "/authcheck", form, cookieHeader)
	if err != nil {
		return AuthCheckResult{}, networkError("authcheck", err)
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return AuthCheckResult{}, rejected("authcheck", resp)
	}
	var body models.AuthCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return AuthCheckResult{}, networkError("authcheck: decode", err)
	}
	return AuthCheckResult{
		Redirect:   body.Redirect,
		SetCookies: resp.Header.Values("Set-Cookie"),
	}, nil
}

// CheckEmail asks /user/check whether email is still free. Any non-OK answer
// means it is taken; the body is not read.
func (c *AuthClient) CheckEmail(ctx context.Context, email string) error {
	form := url.Values{}
	form.Set("email", email)

	resp, err := c.postForm(ctx, "/user/check", form, "")
	if err != nil {
		return networkError("user/check", err)
	}
	defer drain(resp.Body)

	if !ok(resp.StatusCode) {
		return &RejectedError{Status: resp.StatusCode}
	}
	return nil
}

// CreateUser posts the account payload to /user/create. No cookies are sent.
func (c *AuthClient) CreateUser(ctx context.Context, req models.CreateUserRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/user/create", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return networkError("user/create", err)
	}
	defer drain(resp.Body)

	if !ok(resp.StatusCode) {
		return rejected("user/create", resp)
	}
	return nil
}

func (c *AuthClient) postForm(ctx context.Context, path string, form url.Values, cookieHeader string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	if cookieHeader != "" {
		httpReq.Header.Set("Cookie", cookieHeader)
	}
	return c.Client.Do(httpReq)
}

// rejected reads the {message} body of a non-OK answer. A body that is not
// JSON counts as a malformed response.
func rejected(op string, resp *http.Response) error {
	var payload models.UpstreamError
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return networkError(fmt.Sprintf("%s: decode error body (status=%d)", op, resp.StatusCode), err)
	}
	return &RejectedError{Status: resp.StatusCode, Message: strings.TrimSpace(payload.Message)}
}

func ok(status int) bool { return status >= 200 && status < 300 }

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// Package client is the REST client for the POS backend surface the
// console consumes: order lifecycle, invoices, product lookups, and
// the TSV bulk-upload endpoints. Every call takes a context and the
// underlying HTTP client carries an explicit timeout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhishake-droid/pos-console/internal/session"
)

// DefaultTimeout bounds every request unless the caller's context is
// stricter.
const DefaultTimeout = 30 * time.Second

// Client talks to the POS backend. The bearer token is read from the
// session store on every request; a 401 response invalidates the
// session before the error is returned.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
	logger     *logrus.Logger
}

// New creates a Client. A zero timeout falls back to DefaultTimeout.
func New(baseURL string, sess *session.Store, logger *logrus.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		session: sess,
		logger:  logger,
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
}

// newRequest builds a request with the bearer token and a correlation
// ID attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// checkResponse classifies a non-2xx response per the workflow error
// policy. It consumes the body for the backend message.
func (c *Client) checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.logger.WithField("status", resp.StatusCode).Warn("Session invalidated by backend")
		c.session.Invalidate()
		return ErrUnauthorized
	case http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable:
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.Path,
		}).Warn("Endpoint unavailable, feature may not be deployed yet")
		return fmt.Errorf("%w (status %d)", ErrUnavailable, resp.StatusCode)
	}

	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil {
		eb.Message = ""
	}
	return &APIError{StatusCode: resp.StatusCode, Message: eb.Message}
}

// send executes the request, mapping transport-level failures. A dead
// or unreachable backend classifies as ErrUnavailable; context
// cancellation and deadline expiry pass through untouched.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.WithError(err).Warn("No response from backend")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// doJSON sends an optional JSON body and decodes a JSON response into
// out (which may be nil when the response body is irrelevant).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, reader, contentType)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doText posts a plain-text body (the base64 TSV payloads) and returns
// the plain-text response.
func (c *Client) doText(ctx context.Context, method, path, body string) (string, error) {
	req, err := c.newRequest(ctx, method, path, strings.NewReader(body), "text/plain")
	if err != nil {
		return "", err
	}

	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return "", err
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return strings.Trim(string(out), "\"\n"), nil
}

// download streams a binary response body into w.
func (c *Client) download(ctx context.Context, path string, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return err
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to stream response: %w", err)
	}
	return nil
}

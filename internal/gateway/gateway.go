// Package gateway is the single path every call to the remote service takes.
// It attaches the session credential, maps responses onto the error taxonomy
// and tears the session down when the service rejects the credential.
package gateway

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

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/logger"
)

const (
	// RequestIDHeader correlates client and service logs for one call.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 1 << 20
)

// Sessions is the slice of the session store the gateway needs.
type Sessions interface {
	Credential() string
	ClearIf(credential string) bool
}

// Request describes one call. Anonymous requests never carry a credential
// and a 401 on them is an ordinary failure (wrong password), not an expiry.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any
	Anonymous bool
	// Fallback replaces "Request failed" when the service gives no detail.
	Fallback string
}

type Gateway struct {
	BaseURL    string
	HTTPClient *http.Client
	Sessions   Sessions
}

// New returns a gateway with its own client bounded by timeout.
func New(baseURL string, timeout time.Duration, sessions Sessions) *Gateway {
	if timeout <= 0 {
		timeout = constants.DefaultAPITimeout
	}
	return &Gateway{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Sessions:   sessions,
	}
}

// Call performs req and decodes a successful JSON body into out (which may be
// nil). Exactly one outcome is produced per call and nothing is retried.
func (g *Gateway) Call(ctx context.Context, req Request, out any) error {
	httpReq, credential, err := g.newRequest(ctx, req)
	if err != nil {
		return errors.Request(0, req.Fallback, err)
	}
	requestID := httpReq.Header.Get(RequestIDHeader)

	client := g.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: constants.DefaultAPITimeout}
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		logger.Debug("API request failed", "method", req.Method, "path", req.Path, "request_id", requestID, "error", err)
		return errors.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	logger.Debug("API request", "method", req.Method, "path", req.Path, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", requestID)
	if err != nil {
		return errors.Transport(err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && !req.Anonymous:
		if g.Sessions != nil && credential != "" && g.Sessions.ClearIf(credential) {
			logger.Info("Session rejected by service", "request_id", requestID)
		}
		return errors.ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := Detail(body)
		if msg == "" {
			msg = req.Fallback
		}
		return errors.Request(resp.StatusCode, msg, nil)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.Request(resp.StatusCode, constants.MsgInvalidResponse, io.ErrUnexpectedEOF)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Request(resp.StatusCode, constants.MsgInvalidResponse, err)
	}
	return nil
}

func (g *Gateway) newRequest(ctx context.Context, req Request) (*http.Request, string, error) {
	endpoint := strings.TrimRight(g.BaseURL, "/") + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	var credential string
	if !req.Anonymous && g.Sessions != nil {
		credential = g.Sessions.Credential()
		if credential != "" {
			httpReq.Header.Set("Authorization", "Bearer "+credential)
		}
	}
	return httpReq, credential, nil
}

// Detail extracts the service's human-readable failure reason: a string
// detail, the first message of a validation detail list, or a message field.
func Detail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return strings.TrimSpace(detail.String())
	case detail.IsArray():
		if msg := detail.Get("0.msg"); msg.Type == gjson.String {
			return strings.TrimSpace(msg.String())
		}
	}

	if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String {
		return strings.TrimSpace(msg.String())
	}
	return ""
}

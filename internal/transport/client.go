// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

/*
client.go - LANCache Manager backend REST client

All auth-related calls go through doRequest, which attaches the identity
headers, classifies 401 responses and forwards every one of them to the
registered UnauthorizedHandler.

Headers on every request:
  - X-Device-Id: always
  - X-Api-Key: only while authenticated (supplied by the HeaderSource)
  - X-Request-ID: fresh uuid per request
*/

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tomtom215/lancache-manager/internal/config"
	"github.com/tomtom215/lancache-manager/internal/identity"
	"github.com/tomtom215/lancache-manager/internal/logging"
	"github.com/tomtom215/lancache-manager/internal/metrics"
)

// Header names understood by the backend.
const (
	HeaderDeviceID  = "X-Device-Id"
	HeaderAPIKey    = "X-Api-Key"
	HeaderRequestID = "X-Request-ID"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// HeaderSource supplies identity headers for outgoing requests.
type HeaderSource interface {
	AuthHeaders() http.Header
}

// UnauthorizedHandler receives every 401 error the client sees.
type UnauthorizedHandler func(err error)

// Client talks to the LANCache Manager backend.
type Client struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker

	mu             sync.RWMutex
	headers        HeaderSource
	onUnauthorized UnauthorizedHandler
}

// NewClient creates a backend client for deviceID.
func NewClient(cfg *config.BackendConfig, deviceID string) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host required", cfg.URL)
	}

	// Guest sessions are identified by the backend's session cookie.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:  base.String() + cfg.APIPrefix,
		deviceID: deviceID,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(limit, burst),
		breaker: newBreaker("lancache-backend"),
	}, nil
}

// SetHeaderSource installs the source of identity headers. Without one the
// client sends only X-Device-Id.
func (c *Client) SetHeaderSource(hs HeaderSource) {
	c.mu.Lock()
	c.headers = hs
	c.mu.Unlock()
}

// SetUnauthorizedHandler installs the 401 choke point.
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.mu.Lock()
	c.onUnauthorized = h
	c.mu.Unlock()
}

// DeviceID returns the device id sent with every request.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// AuthStatus fetches GET /auth/status.
func (c *Client) AuthStatus(ctx context.Context) (*AuthStatus, error) {
	var status AuthStatus
	err := c.doRequest(ctx, requestConfig{
		endpoint: "auth_status",
		method:   http.MethodGet,
		path:     "/auth/status",
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// CreateGuestSession registers a guest session for this device.
func (c *Client) CreateGuestSession(ctx context.Context, info identity.DeviceInfo) error {
	return c.doRequest(ctx, requestConfig{
		endpoint: "create_guest_session",
		method:   http.MethodPost,
		path:     "/sessions",
		query:    url.Values{"type": []string{"guest"}},
		body: guestSessionRequest{
			DeviceID:        c.deviceID,
			DeviceName:      info.DeviceName,
			OperatingSystem: info.OperatingSystem,
			Browser:         info.Browser,
		},
	}, nil)
}

// RegisterDevice upgrades this device to authenticated with apiKey.
func (c *Client) RegisterDevice(ctx context.Context, apiKey, deviceName string) (*ActionResult, error) {
	return c.action(ctx, requestConfig{
		endpoint: "register_device",
		method:   http.MethodPost,
		path:     "/devices",
		body:     registerRequest{DeviceID: c.deviceID, APIKey: apiKey, DeviceName: deviceName},
	})
}

// DeleteCurrentSession revokes the session of this device.
func (c *Client) DeleteCurrentSession(ctx context.Context) (*ActionResult, error) {
	return c.action(ctx, requestConfig{
		endpoint: "delete_session",
		method:   http.MethodDelete,
		path:     "/sessions/current",
	})
}

// RegenerateAPIKey asks the backend to issue a new API key.
func (c *Client) RegenerateAPIKey(ctx context.Context) (*ActionResult, error) {
	return c.action(ctx, requestConfig{
		endpoint: "regenerate_api_key",
		method:   http.MethodPost,
		path:     "/api-keys/regenerate",
	})
}

// ListSessions fetches GET /sessions behind the circuit breaker.
func (c *Client) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	return castResult[[]SessionInfo](c.breaker.execute(func() (interface{}, error) {
		var list sessionList
		err := c.doRequest(ctx, requestConfig{
			endpoint: "list_sessions",
			method:   http.MethodGet,
			path:     "/sessions",
		}, &list)
		if err != nil {
			return nil, err
		}
		return list.Sessions, nil
	}))
}

// Heartbeat updates last-seen for this device's session. A 404 means the
// backend has no session to touch and is not an error.
func (c *Client) Heartbeat(ctx context.Context) error {
	_, err := c.breaker.execute(func() (interface{}, error) {
		return nil, c.doRequest(ctx, requestConfig{
			endpoint:    "heartbeat",
			method:      http.MethodPatch,
			path:        "/sessions/current/last-seen",
			tolerate404: true,
		}, nil)
	})
	return err
}

// BreakerState reports the background-call breaker state name.
func (c *Client) BreakerState() string {
	return stateToString(c.breaker.cb.State())
}

// requestConfig describes one backend call.
type requestConfig struct {
	endpoint    string // metrics label
	method      string
	path        string
	query       url.Values
	body        interface{}
	tolerate404 bool
}

// action runs an endpoint returning {success, message, warning}. A 2xx with
// success=false and a non-2xx body are both returned as a failed result with
// a nil error; only transport-level failures and 401s return an error.
func (c *Client) action(ctx context.Context, cfg requestConfig) (*ActionResult, error) {
	var result ActionResult
	err := c.doRequest(ctx, cfg, &result)
	if err == nil {
		return &result, nil
	}

	var se *StatusError
	if errors.As(err, &se) && !IsUnauthorized(err) {
		return &ActionResult{Success: false, Message: MessageOf(err)}, nil
	}
	return nil, err
}

func (c *Client) doRequest(ctx context.Context, cfg requestConfig, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetwork, cfg.endpoint, err)
	}

	var body io.Reader = http.NoBody
	if cfg.body != nil {
		data, err := json.Marshal(cfg.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", cfg.endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	reqURL := c.baseURL + cfg.path
	if len(cfg.query) > 0 {
		reqURL += "?" + cfg.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, cfg.body != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordTransportRequest(cfg.endpoint, 0, time.Since(start))
		return fmt.Errorf("%w: %s: %w", ErrNetwork, cfg.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordTransportRequest(cfg.endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNotFound && cfg.tolerate404 {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := newStatusError(cfg.endpoint, resp.StatusCode, readErrorBody(resp.Body))
		if resp.StatusCode == http.StatusUnauthorized {
			logging.Debug().Str("endpoint", cfg.endpoint).Str("code", se.Code).Msg("[transport] Unauthorized response")
			c.notifyUnauthorized(se)
		}
		return se
	}

	if result == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrNetwork, cfg.endpoint, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode %s response: %w", cfg.endpoint, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, uuid.New().String())

	c.mu.RLock()
	hs := c.headers
	c.mu.RUnlock()

	if hs != nil {
		for k, vs := range hs.AuthHeaders() {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if req.Header.Get(HeaderDeviceID) == "" {
		req.Header.Set(HeaderDeviceID, c.deviceID)
	}
}

func (c *Client) notifyUnauthorized(err error) {
	c.mu.RLock()
	h := c.onUnauthorized
	c.mu.RUnlock()
	if h != nil {
		h(err)
	}
}

func readErrorBody(r io.Reader) errorBody {
	var eb errorBody
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return eb
	}
	if json.Unmarshal(data, &eb) != nil {
		eb.Message = strings.TrimSpace(string(data))
	}
	return eb
}

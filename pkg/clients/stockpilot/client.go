package stockpilot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/config"
	"github.com/mamadbah2/stockpilot/internal/domain"
)

const requestIDHeader = "X-Request-ID"

// SessionBinding supplies the bearer token and tears the session down when
// the backend rejects it. LogoutIfToken must leave a session opened with a
// different token untouched.
type SessionBinding interface {
	Token() string
	LogoutIfToken(token string) error
}

// APIClient is the resty-backed gateway to the StockPilot backend.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger

	mu      sync.RWMutex
	session SessionBinding
}

// NewClient builds a StockPilot API client. The session is bound later with BindSession.
func NewClient(cfg config.APIConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		restyClient.SetTimeout(cfg.Timeout)
	}

	return &APIClient{
		httpClient: restyClient,
		logger:     logger,
	}
}

// BindSession attaches the session that provides tokens and receives expiry teardown.
func (c *APIClient) BindSession(session SessionBinding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

func (c *APIClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token()
}

// authed prepares a request carrying the current bearer token. Without a
// token no request is built, so a torn-down session never reaches the network.
func (c *APIClient) authed(ctx context.Context, op string) (*resty.Request, error) {
	token := c.token()
	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	return c.request(ctx).SetAuthToken(token), nil
}

func (c *APIClient) request(ctx context.Context) *resty.Request {
	return c.httpClient.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
}

// check maps transport failures and error statuses onto the domain taxonomy.
func (c *APIClient) check(op string, resp *resty.Response, err error) error {
	requestID := ""
	if resp != nil && resp.Request != nil {
		requestID = resp.Request.Header.Get(requestIDHeader)
	}

	if err != nil {
		c.logger.Warn("stockpilot request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}

	status := resp.StatusCode()
	if status < http.StatusBadRequest {
		c.logger.Debug("stockpilot request completed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.Duration("duration", resp.Time()))
		return nil
	}

	apiErr := &domain.APIError{Op: op, Status: status, Detail: parseDetail(resp.Body())}
	switch {
	case status == http.StatusUnauthorized:
		apiErr.Kind = domain.ErrAuthExpired
		c.expire(op, resp.Request)
	case status == http.StatusForbidden:
		apiErr.Kind = domain.ErrForbidden
	case status == http.StatusNotFound:
		apiErr.Kind = domain.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		apiErr.Kind = domain.ErrValidation
	default:
		apiErr.Kind = domain.ErrServer
	}

	c.logger.Warn("stockpilot request rejected",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.String("detail", apiErr.Detail))
	return apiErr
}

// expire tears down the session whose token the rejected request carried.
func (c *APIClient) expire(op string, req *resty.Request) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil || req == nil || req.Token == "" {
		return
	}

	c.logger.Info("session rejected by backend, logging out", zap.String("op", op))
	if err := session.LogoutIfToken(req.Token); err != nil {
		c.logger.Error("failed to tear down expired session", zap.Error(err))
	}
}

// parseDetail reads FastAPI's {"detail": ...}, where detail is either a
// string or a list of validation entries.
func parseDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}

	var entries []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &entries); err == nil {
		parts := make([]string, 0, len(entries))
		for _, entry := range entries {
			if len(entry.Loc) > 0 {
				parts = append(parts, fmt.Sprintf("%v: %s", entry.Loc[len(entry.Loc)-1], entry.Msg))
				continue
			}
			parts = append(parts, entry.Msg)
		}
		return strings.Join(parts, "; ")
	}

	return string(payload.Detail)
}

package auth

import (
	"context"
	"eyebench/internal/app/config"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/exceptions"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// TokenSource supplies the Authorization header value for FHIR requests.
// A static bearer token wins over the client-credentials flow; when neither
// is configured requests go out anonymous and a single warning is logged.
type TokenSource struct {
	cfg        config.Auth
	httpClient *http.Client
	logger     *zap.Logger

	mu       sync.Mutex
	token    string
	expiry   time.Time
	warnOnce sync.Once
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewTokenSource(cfg config.Auth, httpClient *http.Client, logger *zap.Logger) *TokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenSource{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// AuthorizationHeader returns the value for the Authorization header, or an
// empty string when no credentials are configured.
func (ts *TokenSource) AuthorizationHeader(ctx context.Context) (string, error) {
	if ts.cfg.StaticBearer != "" {
		return "Bearer " + ts.cfg.StaticBearer, nil
	}

	if ts.cfg.ClientID == "" || ts.cfg.ClientSecret == "" || ts.cfg.TokenURL == "" {
		ts.warnOnce.Do(func() {
			ts.logger.Warn("no FHIR credentials configured, requests will be sent unauthenticated")
		})
		return "", nil
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expiry) {
		return "Bearer " + ts.token, nil
	}

	token, expiresIn, err := ts.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	ts.token = token
	// Refresh slightly ahead of the server-side expiry.
	ts.expiry = time.Now().Add(time.Duration(expiresIn)*time.Second - 30*time.Second)
	return "Bearer " + ts.token, nil
}

func (ts *TokenSource) fetchToken(ctx context.Context) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", ts.cfg.ClientID)
	form.Set("client_secret", ts.cfg.ClientSecret)
	if ts.cfg.Scope != "" {
		form.Set("scope", ts.cfg.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, ts.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", 0, exceptions.ErrTokenRequest(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, exceptions.ErrReadResponseBody(err)
	}

	if resp.StatusCode != constvars.StatusOK {
		ts.logger.Error("token endpoint rejected client credentials",
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.String(constvars.LoggingURLKey, ts.cfg.TokenURL),
		)
		return "", 0, exceptions.ErrTokenRejected(resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, exceptions.ErrCannotParseJSON(err)
	}
	if tr.AccessToken == "" {
		return "", 0, exceptions.ErrMissingAuthConfig()
	}
	if tr.ExpiresIn <= 0 {
		tr.ExpiresIn = 300
	}
	return tr.AccessToken, tr.ExpiresIn, nil
}

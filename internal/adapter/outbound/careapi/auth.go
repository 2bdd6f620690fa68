package careapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/caregate/caregate/internal/domain/tool"
)

// expirySkew is how early a token is considered stale. Refreshing five
// minutes ahead of expiry keeps in-flight calls from racing the server
// clock.
const expirySkew = 5 * time.Minute

// authTimeout bounds login and refresh calls.
const authTimeout = 30 * time.Second

// ErrNoCredentials is returned by Authenticate when neither a static
// token nor username/password credentials are configured.
var ErrNoCredentials = errors.New("careapi: no credentials configured")

// AuthConfig configures the Authenticator.
type AuthConfig struct {
	BaseURL  string
	Username string
	Password string
	// StaticToken bypasses login entirely when set.
	StaticToken string
	// UserAgent is sent on every request.
	UserAgent string
}

// Authenticator obtains and refreshes Care API bearer tokens and
// builds per-request authorization headers. Safe for concurrent use:
// token state is mutex-guarded and refreshes are collapsed through a
// singleflight group so concurrent tool invocations share one refresh
// instead of each re-authenticating.
type Authenticator struct {
	cfg        AuthConfig
	httpClient *http.Client
	logger     *slog.Logger

	group singleflight.Group

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiry       time.Time
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(cfg AuthConfig, logger *slog.Logger) *Authenticator {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "caregate"
	}
	a := &Authenticator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: authTimeout},
		logger:     logger,
	}
	if cfg.StaticToken != "" {
		a.accessToken = cfg.StaticToken
		// Static tokens carry no expiry; treat them as always valid.
	}
	return a
}

// tokenResponse is the login/refresh response shape. The API has
// shipped both key conventions, so both are accepted.
type tokenResponse struct {
	Access       string `json:"access"`
	AccessToken  string `json:"access_token"`
	Refresh      string `json:"refresh"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (r tokenResponse) access() string {
	if r.Access != "" {
		return r.Access
	}
	return r.AccessToken
}

func (r tokenResponse) refresh() string {
	if r.Refresh != "" {
		return r.Refresh
	}
	return r.RefreshToken
}

// Authenticate performs a credential login and stores the issued
// tokens. Called once at startup; afterwards Headers keeps the token
// fresh on its own.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	if a.cfg.StaticToken != "" {
		return nil
	}
	if a.cfg.Username == "" || a.cfg.Password == "" {
		return ErrNoCredentials
	}

	tok, err := a.postToken(ctx, "/api/v1/auth/login", map[string]string{
		"username": a.cfg.Username,
		"password": a.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	a.storeToken(tok)
	a.logger.Info("authenticated with care api", "base_url", a.cfg.BaseURL)
	return nil
}

// Headers returns the request headers for one API call, refreshing the
// access token first when it is stale. May suspend on network I/O.
func (a *Authenticator) Headers(ctx context.Context) (map[string]string, error) {
	token, err := a.validToken(ctx)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": a.cfg.UserAgent,
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers, nil
}

// validToken returns the current access token, refreshing when needed.
// Unauthenticated mode (no credentials, no token) yields an empty token
// so public endpoints still work.
func (a *Authenticator) validToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	token := a.accessToken
	valid := a.tokenValidLocked()
	configured := a.cfg.Username != "" && a.cfg.Password != ""
	a.mu.Unlock()

	if valid || (!configured && a.cfg.StaticToken == "") {
		return token, nil
	}

	// Collapse concurrent refreshes: every caller waiting here gets the
	// outcome of one network round-trip.
	refreshed, err, _ := a.group.Do("refresh", func() (any, error) {
		return a.refreshOrLogin(ctx)
	})
	if err != nil {
		return "", err
	}
	return refreshed.(string), nil
}

// tokenValidLocked reports whether the stored token is usable. Must be
// called with the mutex held.
func (a *Authenticator) tokenValidLocked() bool {
	if a.accessToken == "" {
		return false
	}
	if a.expiry.IsZero() {
		// No expiry recorded (static token); assume valid.
		return true
	}
	return time.Now().Before(a.expiry.Add(-expirySkew))
}

// refreshOrLogin exchanges the refresh token for a new access token,
// falling back to a full re-login when the refresh is rejected.
func (a *Authenticator) refreshOrLogin(ctx context.Context) (string, error) {
	a.mu.Lock()
	refresh := a.refreshToken
	// A caller that raced a just-completed refresh re-checks here and
	// skips the network round-trip.
	if a.tokenValidLocked() {
		token := a.accessToken
		a.mu.Unlock()
		return token, nil
	}
	a.mu.Unlock()

	if refresh != "" {
		tok, err := a.postToken(ctx, "/api/v1/auth/token/refresh", map[string]string{
			"refresh": refresh,
		})
		if err == nil {
			a.storeToken(tok)
			a.logger.Debug("access token refreshed")
			return a.currentToken(), nil
		}
		a.logger.Warn("token refresh failed, re-authenticating", "error", err)
	}

	if err := a.Authenticate(ctx); err != nil {
		return "", err
	}
	return a.currentToken(), nil
}

func (a *Authenticator) currentToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accessToken
}

func (a *Authenticator) storeToken(tok tokenResponse) {
	expiresIn := tok.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.accessToken = tok.access()
	if r := tok.refresh(); r != "" {
		a.refreshToken = r
	}
	a.expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// postToken posts a JSON payload to an auth endpoint and decodes the
// token response. Non-200 responses are errors with the status and a
// body excerpt.
func (a *Authenticator) postToken(ctx context.Context, path string, payload map[string]string) (tokenResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return tokenResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("post %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		excerpt := body
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		return tokenResponse{}, fmt.Errorf("%s: HTTP %d: %s", path, resp.StatusCode, excerpt)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return tokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	if tok.access() == "" {
		return tokenResponse{}, fmt.Errorf("%s: response carried no access token", path)
	}
	return tok, nil
}

// Compile-time check that Authenticator implements the auth capability.
var _ tool.HeaderSource = (*Authenticator)(nil)

package gateway

import (
	"context"
	"net/url"
	"sync"
	"time"

	"travel-assistant/internal/common/config"
	"travel-assistant/internal/common/httpclient"
	"travel-assistant/internal/common/logger"
)

// tokenExpirySlack is subtracted from the advertised token lifetime so a
// token nearing expiry is never used mid-request.
const tokenExpirySlack = 60 * time.Second

// AmadeusClient handles client-credentials authentication against the
// Amadeus API. Flight and hotel fetchers share one instance so the token
// is requested once per lifetime, not once per call.
type AmadeusClient struct {
	cfg    config.AmadeusConfig
	client *httpclient.Client
	logger logger.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewAmadeusClient(cfg config.AmadeusConfig, client *httpclient.Client, log logger.Logger) *AmadeusClient {
	return &AmadeusClient{
		cfg:    cfg,
		client: client,
		logger: log.With(map[string]interface{}{"gateway": "amadeus"}),
	}
}

// Configured reports whether credentials are present. Fetchers check this
// before any network activity so the unconfigured path stays deterministic.
func (a *AmadeusClient) Configured() bool {
	return a.cfg.ClientID != "" && a.cfg.ClientSecret != ""
}

// Token returns a valid access token, fetching a fresh one when the cached
// token is absent or close to expiry.
func (a *AmadeusClient) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.expiresAt) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.cfg.ClientID)
	form.Set("client_secret", a.cfg.ClientSecret)

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	tokenURL := a.cfg.BaseURL + "/v1/security/oauth2/token"
	if err := a.client.PostFormJSON(ctx, tokenURL, form, &payload); err != nil {
		return "", err
	}

	a.accessToken = payload.AccessToken
	a.expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - tokenExpirySlack)
	a.logger.Debug("refreshed access token", map[string]interface{}{
		"expires_in": payload.ExpiresIn,
	})
	return a.accessToken, nil
}

// GetJSON issues an authenticated GET against the API and decodes the
// response into out.
func (a *AmadeusClient) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := a.Token(ctx)
	if err != nil {
		return err
	}
	endpoint := a.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return a.client.GetJSONBearer(ctx, endpoint, token, out)
}

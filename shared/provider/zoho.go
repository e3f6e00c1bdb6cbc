package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

var ErrZohoNotConfigured = errors.New("missing Zoho client id, client secret or refresh token")

// ZohoConfig holds the OAuth client used for Zoho Mail API checks.
type ZohoConfig struct {
	ClientID     string `env:"ZOHO_CLIENT_ID"`
	ClientSecret string `env:"ZOHO_CLIENT_SECRET"`
	RefreshToken string `env:"ZOHO_REFRESH_TOKEN"`
	AccountsURL  string `env:"ZOHO_ACCOUNTS_URL"  envDefault:"https://accounts.zoho.com"`
	MailAPIURL   string `env:"ZOHO_MAIL_API_URL"  envDefault:"https://mail.zoho.com"`
}

// Configured reports whether the refresh-token flow can be attempted.
func (c ZohoConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// ZohoProvider exchanges the refresh token for access tokens and calls the Mail API.
type ZohoProvider struct {
	cfg        ZohoConfig
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewZohoProvider creates a ZohoProvider. httpClient is used for both the token
// exchange and Mail API calls; nil means http.DefaultClient.
func NewZohoProvider(cfg ZohoConfig, httpClient *http.Client) *ZohoProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ZohoProvider{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  strings.TrimRight(cfg.AccountsURL, "/") + "/oauth/v2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// AccessToken performs the refresh-token grant.
func (p *ZohoProvider) AccessToken(ctx context.Context) (string, error) {
	if !p.cfg.Configured() {
		return "", ErrZohoNotConfigured
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: p.cfg.RefreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}

	return token.AccessToken, nil
}

// CheckAccount calls the account endpoint to verify the token's permissions.
func (p *ZohoProvider) CheckAccount(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		strings.TrimRight(p.cfg.MailAPIURL, "/")+"/api/accounts/self",
		nil,
	)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}

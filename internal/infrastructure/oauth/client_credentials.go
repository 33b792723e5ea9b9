package oauth

import (
	"context"
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials handles the OAuth2 client credentials flow used by the
// Amadeus and OpenSky feeds
type ClientCredentials struct {
	config *clientcredentials.Config
}

// NewClientCredentials creates a client credentials handler. It returns nil when
// either credential is empty so callers can treat the feed as anonymous.
func NewClientCredentials(clientID, clientSecret, tokenURL string, scopes ...string) *ClientCredentials {
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return &ClientCredentials{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
	}
}

// TokenSource returns a caching, auto-refreshing token source
func (c *ClientCredentials) TokenSource(ctx context.Context) oauth2.TokenSource {
	return c.config.TokenSource(ctx)
}

// HTTPClient returns a client that authorizes every request. base supplies the
// transport and timeout; it may be nil.
func (c *ClientCredentials) HTTPClient(ctx context.Context, base *http.Client) *http.Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	client := c.config.Client(ctx)
	if base != nil {
		client.Timeout = base.Timeout
	}
	return client
}

// Token fetches a fresh token
func (c *ClientCredentials) Token(ctx context.Context) (*oauth2.Token, error) {
	return c.config.Token(ctx)
}

// TokenToJSON converts a token to JSON
func TokenToJSON(token *oauth2.Token) (string, error) {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

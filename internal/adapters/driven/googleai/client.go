// Package googleai builds the Gemini API client shared by the Gemini
// embedding and LLM adapters.
package googleai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
	"google.golang.org/genai"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/"

// Credentials authenticate against the API. Exactly one of APIKey and
// AccessToken is used; APIKey wins when both are set.
type Credentials struct {
	APIKey      string
	AccessToken string

	// BaseURL overrides the API endpoint, e.g. for a proxy or tests.
	BaseURL string
}

// ErrNoCredentials is returned when neither an API key nor a token is set.
var ErrNoCredentials = errors.New("gemini: API key or access token is required")

// NewClient creates a Gemini API client. Key auth is handled by genai;
// a token is attached by an OAuth2 transport.
func NewClient(ctx context.Context, creds Credentials) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL(creds.BaseURL),
		},
	}

	switch {
	case creds.APIKey != "":
		cfg.APIKey = creds.APIKey
	case creds.AccessToken != "":
		hc, err := TokenHTTPClient(ctx, creds.AccessToken)
		if err != nil {
			return nil, err
		}
		cfg.HTTPClient = hc
	default:
		return nil, ErrNoCredentials
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return client, nil
}

// TokenHTTPClient returns an HTTP client that sends token as a bearer
// credential on every request.
func TokenHTTPClient(ctx context.Context, token string) (*http.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc, _, err := htransport.NewClient(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("gemini: token transport: %w", err)
	}
	return hc, nil
}

func baseURL(override string) string {
	if override == "" {
		return DefaultBaseURL
	}
	if !strings.HasSuffix(override, "/") {
		override += "/"
	}
	return override
}

// ModelPath returns the resource name of a model ("models/<id>").
func ModelPath(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

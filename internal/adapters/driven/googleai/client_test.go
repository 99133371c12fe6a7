package googleai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestNewClient_APIKey(t *testing.T) {
	client, err := NewClient(context.Background(), Credentials{APIKey: "k", BaseURL: "http://localhost:1"})
	require.NoError(t, err)
	assert.NotNil(t, client.Models)
}

func TestTokenHTTPClient_SendsBearer(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hc, err := TokenHTTPClient(context.Background(), "ya29.token")
	require.NoError(t, err)

	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "Bearer ya29.token", auth)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, baseURL(""))
	assert.Equal(t, "http://proxy:8080/", baseURL("http://proxy:8080"))
	assert.Equal(t, "http://proxy:8080/", baseURL("http://proxy:8080/"))
}

func TestModelPath(t *testing.T) {
	assert.Equal(t, "models/text-embedding-004", ModelPath("text-embedding-004"))
	assert.Equal(t, "models/gemini-2.5-flash", ModelPath("models/gemini-2.5-flash"))
}

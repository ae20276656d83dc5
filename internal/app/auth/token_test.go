package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eyebench/internal/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStaticBearerWinsOverClientCredentials(t *testing.T) {
	ts := NewTokenSource(config.Auth{
		StaticBearer: "static-token",
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     "http://localhost:1/token",
	}, nil, zap.NewNop())

	header, err := ts.AuthorizationHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer static-token", header)
}

func TestMissingCredentialsReturnsEmptyHeader(t *testing.T) {
	ts := NewTokenSource(config.Auth{}, nil, zap.NewNop())

	header, err := ts.AuthorizationHeader(context.Background())
	require.NoError(t, err)
	assert.Empty(t, header)
}

func TestClientCredentialsFlowCachesToken(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "my-client", r.FormValue("client_id"))
		assert.Equal(t, "my-secret", r.FormValue("client_secret"))
		assert.Equal(t, "system/*.*", r.FormValue("scope"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"issued-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	ts := NewTokenSource(config.Auth{
		ClientID:     "my-client",
		ClientSecret: "my-secret",
		TokenURL:     server.URL,
		Scope:        "system/*.*",
	}, server.Client(), zap.NewNop())

	for i := 0; i < 3; i++ {
		header, err := ts.AuthorizationHeader(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer issued-token", header)
	}
	assert.Equal(t, 1, calls)
}

func TestTokenEndpointRejectionIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	ts := NewTokenSource(config.Auth{
		ClientID:     "bad",
		ClientSecret: "bad",
		TokenURL:     server.URL,
	}, server.Client(), zap.NewNop())

	_, err := ts.AuthorizationHeader(context.Background())
	require.Error(t, err)
}

package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "doc@vayd.vet", creds.Email)
		require.Equal(t, "hunter2", creds.Password)

		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "A1", RefreshToken: "R1"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), Credentials{Email: "doc@vayd.vet", Password: "hunter2"})
	require.NoError(t, err)
	require.Equal(t, "A1", resp.AccessToken)
	require.Equal(t, "R1", resp.RefreshToken)
}

func TestLoginRequiresCredentials(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost"})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), Credentials{})
	require.Error(t, err)
}

func TestRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "R1", body["refreshToken"])

		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "A2", RefreshToken: "R2"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.Refresh(context.Background(), "R1")
	require.NoError(t, err)
	require.Equal(t, "A2", resp.AccessToken)
	require.Equal(t, "R2", resp.RefreshToken)
}

func TestRefreshRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "refresh token rotated", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Refresh(context.Background(), "stale")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.True(t, apiErr.Rejected())
}

func TestRefreshGatewayErrorIsNotRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Refresh(context.Background(), "R1")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.False(t, apiErr.Rejected())
}

func TestRefreshIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "A2"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Refresh(context.Background(), "R1")
	require.True(t, errors.Is(err, ErrIncompleteTokenResponse))
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

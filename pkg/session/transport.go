package session

import (
	"context"
	"io"
	"net/http"
)

type ctxKey int

// retriedKey marks a request that has already been replayed once after an
// authorization failure, preventing retry loops when a renewed token is
// still rejected.
const retriedKey ctxKey = iota

// Transport decorates an http.RoundTripper with the session credential.
// Outgoing requests that carry no explicit Authorization header get the
// current access token as a bearer credential; a request answered with
// 401 is replayed exactly once after the pair has been renewed.
type Transport struct {
	// Base performs the actual round trips. http.DefaultTransport when nil.
	Base http.RoundTripper

	Manager *Manager
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" {
		if tok := t.Manager.AccessToken(); tok != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if req.Context().Value(retriedKey) != nil {
		return resp, nil
	}

	// A consumed one-shot body cannot be replayed, but the authorization
	// failure still drives the renewal so the session settles either way.
	var retryBody io.ReadCloser
	replayable := true
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			replayable = false
		} else {
			retryBody = body
		}
	} else if req.Body != nil {
		replayable = false
	}

	token, rerr := t.Manager.Refresh(req.Context())
	if rerr != nil || !replayable {
		// Either the renewal failed (the manager has already ended the
		// session) or there is no rewindable body; the caller sees the
		// original authorization failure.
		if retryBody != nil {
			_ = retryBody.Close()
		}
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	retry := req.Clone(context.WithValue(req.Context(), retriedKey, struct{}{}))
	retry.Body = retryBody
	retry.Header.Set("Authorization", "Bearer "+token)
	return t.base().RoundTrip(retry)
}

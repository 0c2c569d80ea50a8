package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGitHubStub(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Path {
		case "/users/octocat":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"login":"octocat","html_url":"https://github.com/octocat","type":"User","public_repos":8,"followers":100}`))
		case "/users/octocat/repos":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"name":"Spoon-Knife","language":"HTML","stargazers_count":12,"fork":false,"pushed_at":"2025-01-01T00:00:00Z"},
				{"name":"forked","language":"Go","stargazers_count":999,"fork":true},
				{"name":"Hello-World","language":"","stargazers_count":300,"fork":false,"description":"My first repo"}
			]`))
		case "/users/ratelimited":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
		case "/users/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGitHubValidatorExists(t *testing.T) {
	srv, _ := newGitHubStub(t)
	v := NewGitHubValidator(srv.URL, "", time.Second)

	id, err := v.Validate(context.Background(), "https://github.com/octocat/")
	require.NoError(t, err)
	assert.True(t, id.Exists)
	assert.Equal(t, "octocat", id.Canonical)
	assert.Equal(t, "https://github.com/octocat", id.ProfileURL)
}

func TestGitHubValidatorNotFound(t *testing.T) {
	srv, _ := newGitHubStub(t)
	v := NewGitHubValidator(srv.URL, "", time.Second)

	id, err := v.Validate(context.Background(), "ghost-user-123")
	require.ErrorIs(t, err, ErrIdentifierNotFound)
	assert.False(t, id.Exists)
	assert.Equal(t, "ghost-user-123", id.Canonical)
}

func TestGitHubValidatorMalformedSkipsNetwork(t *testing.T) {
	srv, calls := newGitHubStub(t)
	v := NewGitHubValidator(srv.URL, "", time.Second)

	_, err := v.Validate(context.Background(), "not a handle!")
	require.ErrorIs(t, err, ErrMalformedIdentifier)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestGitHubValidatorUnavailable(t *testing.T) {
	srv, _ := newGitHubStub(t)
	v := NewGitHubValidator(srv.URL, "", time.Second)

	for _, handle := range []string{"ratelimited", "broken"} {
		_, err := v.Validate(context.Background(), handle)
		assert.ErrorIs(t, err, ErrValidatorUnavailable, handle)
		assert.NotErrorIs(t, err, ErrIdentifierNotFound, handle)
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	v = NewGitHubValidator(closed.URL, "", 200*time.Millisecond)
	_, err := v.Validate(context.Background(), "octocat")
	assert.ErrorIs(t, err, ErrValidatorUnavailable)
}

func TestGitHubValidatorSendsToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer srv.Close()

	v := NewGitHubValidator(srv.URL, "ghp_test", time.Second)
	_, err := v.Validate(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_test", auth)
}

func TestFetchProfileSkipsForksAndSortsByStars(t *testing.T) {
	srv, _ := newGitHubStub(t)
	v := NewGitHubValidator(srv.URL, "", time.Second)

	p, err := v.FetchProfile(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, p.Repositories, 2)
	assert.Equal(t, "Hello-World", p.Repositories[0].Name)
	assert.Equal(t, "Spoon-Knife", p.Repositories[1].Name)

	summary := p.Summary()
	assert.True(t, strings.Contains(summary, "Public repositories: 8"))
	assert.True(t, strings.Contains(summary, "Hello-World [unknown, 300 stars"))
}

package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiter_SlidingWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(2, time.Minute, clock.now)

	ok, _ := rl.allow("a")
	assert.True(t, ok)
	clock.advance(20 * time.Second)
	ok, _ = rl.allow("a")
	assert.True(t, ok)

	ok, retryAfter := rl.allow("a")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retryAfter)

	ok, _ = rl.allow("b")
	assert.True(t, ok, "limits are per client")

	clock.advance(41 * time.Second)
	ok, _ = rl.allow("a")
	assert.True(t, ok, "oldest request left the window")
	ok, _ = rl.allow("a")
	assert.False(t, ok)
}

func TestRateLimiter_MinimumRetryAfter(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(1, time.Second, clock.now)

	ok, _ := rl.allow("a")
	require.True(t, ok)
	clock.advance(999 * time.Millisecond)

	ok, retryAfter := rl.allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Second, retryAfter)
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": " 10.0.0.1 , 10.0.0.2"}, "127.0.0.1:1234", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.3"}, "127.0.0.1:1234", "10.0.0.3"},
		{"remote addr", nil, "192.168.1.5:5555", "192.168.1.5"},
		{"remote addr without port", nil, "192.168.1.6", "192.168.1.6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/builds", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientKey(r))
		})
	}
}

func TestServer_RateLimited(t *testing.T) {
	s := New("secret", "app-1", WithRateLimit(2, time.Minute))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	get := func() *http.Response {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/builds?appId=app-1", nil)
		require.NoError(t, err)
		req.Header.Set("x-auth-token", "secret")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	assert.Equal(t, http.StatusOK, get().StatusCode)
	assert.Equal(t, http.StatusOK, get().StatusCode)

	resp := get()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

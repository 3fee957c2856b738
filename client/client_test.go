package client

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return New(host, port, timeout, nil), srv
}

func TestDoNormalizesResponse(t *testing.T) {
	headers := make(http.Header)
	headers.Set("X-Test", "yes")
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(201, headers, []byte("created")))
	c, _ := newTestClient(t, handler, time.Second)

	result := c.Do("POST", "/things", RequestOpts{Body: []byte("payload")})
	require.True(t, result.OK(), "unexpected transport error: %v", result.Err)
	assert.Equal(t, 201, result.StatusCode)
	assert.Equal(t, "yes", result.Headers.Get("x-test"), "header lookup is case-insensitive")
	assert.Equal(t, "created", result.BodyString())
	assert.Greater(t, result.Elapsed, time.Duration(0))

	info := <-requestsCh
	assert.Equal(t, "POST", info.Request.Method)
	assert.Equal(t, "payload", string(info.Body), "request body should reach the server intact")
}

func TestDoTimeoutYieldsTimeoutKind(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}), 50*time.Millisecond)

	result := c.Get("/slow")
	assert.False(t, result.OK())
	assert.Equal(t, ErrTimeout, result.ErrKind)
}

func TestDoConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	c := New("127.0.0.1", port, time.Second, nil)
	result := c.Get("/")
	assert.Equal(t, ErrConnectionRefused, result.ErrKind)
}

func TestDoDoesNotFollowRedirects(t *testing.T) {
	headers := make(http.Header)
	headers.Set("Location", "/new")
	c, _ := newTestClient(t, httphelpers.HandlerWithResponse(http.StatusMovedPermanently, headers, nil), time.Second)

	result := c.Get("/old")
	require.True(t, result.OK())
	assert.Equal(t, http.StatusMovedPermanently, result.StatusCode)
	assert.Equal(t, "/new", result.Headers.Get("Location"))
}

func TestDoOverridesHostHeader(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	c, _ := newTestClient(t, handler, time.Second)

	result := c.Do("GET", "/", RequestOpts{Host: "virtual.example"})
	require.True(t, result.OK())

	info := <-requestsCh
	assert.Equal(t, "virtual.example", info.Request.Host)
}

func TestSendRawWellFormedRequest(t *testing.T) {
	c, _ := newTestClient(t, httphelpers.HandlerWithResponse(200, nil, []byte("raw ok")), time.Second)

	result := c.SendRaw([]byte("GET / HTTP/1.1\r\nHost: example\r\nConnection: close\r\n\r\n"))
	require.True(t, result.OK(), "unexpected transport error: %v", result.Err)
	assert.Contains(t, result.String(), "HTTP/1.1 200")
	assert.Contains(t, result.String(), "raw ok")
}

func TestSendRawConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	c := New("127.0.0.1", port, 500*time.Millisecond, nil)
	result := c.SendRaw([]byte("GET / HTTP/1.0\r\n\r\n"))
	assert.Equal(t, ErrConnectionRefused, result.ErrKind)
}

func TestClientIsSafeForConcurrentRequests(t *testing.T) {
	c, _ := newTestClient(t, httphelpers.HandlerWithStatus(200), time.Second)

	const n = 16
	done := make(chan HTTPResult, n)
	for i := 0; i < n; i++ {
		go func() { done <- c.Get("/") }()
	}
	for i := 0; i < n; i++ {
		result := <-done
		require.True(t, result.OK())
		assert.Equal(t, 200, result.StatusCode)
	}
}

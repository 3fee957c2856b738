// Package client issues HTTP requests against the server-under-test and
// normalizes the exchanges into HTTPResult records. Transport failures are
// carried in the result rather than returned as errors, because for many
// protocol-compliance tests a refused or reset connection is itself the
// expected outcome.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/webservtools/webserv-contract-tests/framework"
)

// ErrorKind classifies a transport-level failure.
type ErrorKind string

const (
	ErrNone              ErrorKind = ""
	ErrTimeout           ErrorKind = "timeout"
	ErrConnectionRefused ErrorKind = "connection-refused"
	ErrConnectionReset   ErrorKind = "connection-reset"
)

// HTTPResult is the immutable record of one request/response exchange.
// When ErrKind is non-empty the response fields are zero values.
type HTTPResult struct {
	Method     string
	Path       string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Elapsed    time.Duration
	ErrKind    ErrorKind
	Err        error
}

// OK reports whether the exchange completed at the transport level.
func (r HTTPResult) OK() bool { return r.ErrKind == ErrNone }

// BodyString returns the response body as text.
func (r HTTPResult) BodyString() string { return string(r.Body) }

// RequestOpts carries the optional parts of a structured request.
type RequestOpts struct {
	Headers map[string]string
	Body    []byte
	// Timeout overrides the client default when positive.
	Timeout time.Duration
	// Host overrides the Host header (virtual-host tests).
	Host string
}

// Client sends requests to a fixed host:port. Safe for concurrent use from
// multiple goroutines within one test. Redirects are never followed; the
// redirect tests assert on the 3xx responses themselves.
type Client struct {
	host    string
	port    int
	timeout time.Duration
	logger  framework.Logger
	http    *http.Client
}

// New creates a Client for the given endpoint with a default per-request
// timeout.
func New(host string, port int, timeout time.Duration, logger framework.Logger) *Client {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Client{
		host:    host,
		port:    port,
		timeout: timeout,
		logger:  logger,
		http: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// WithLogger returns a shallow copy of the client that writes its request
// trace to a different logger. The underlying connection pool is shared.
func (c *Client) WithLogger(logger framework.Logger) *Client {
	if logger == nil {
		logger = framework.NullLogger()
	}
	c2 := *c
	c2.logger = logger
	return &c2
}

// BaseURL returns the root URL the client targets.
func (c *Client) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.host, c.port)
}

// Do sends one structured HTTP request and normalizes the outcome.
func (c *Client) Do(method, path string, opts RequestOpts) HTTPResult {
	result := HTTPResult{Method: method, Path: path}
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyReader = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, bodyReader)
	if err != nil {
		result.ErrKind = ErrConnectionRefused
		result.Err = err
		return result
	}
	for name, value := range opts.Headers {
		req.Header.Set(name, value)
	}
	if opts.Host != "" {
		req.Host = opts.Host
	}

	c.logger.Printf("%s %s", method, path)
	started := time.Now()
	resp, err := c.http.Do(req)
	result.Elapsed = time.Since(started)
	if err != nil {
		result.ErrKind = classify(err)
		result.Err = err
		c.logger.Printf("%s %s transport failure (%s): %v", method, path, result.ErrKind, err)
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.ErrKind = classify(err)
		result.Err = err
		return result
	}
	result.StatusCode = resp.StatusCode
	result.Headers = resp.Header
	result.Body = body
	c.logger.Printf("%s %s -> %d (%d bytes, %v)", method, path, resp.StatusCode, len(body), result.Elapsed)
	return result
}

// Get is shorthand for Do("GET", path, RequestOpts{}).
func (c *Client) Get(path string) HTTPResult {
	return c.Do(http.MethodGet, path, RequestOpts{})
}

func classify(err error) ErrorKind {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout(),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return ErrConnectionRefused
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF),
		strings.Contains(err.Error(), "EOF"):
		return ErrConnectionReset
	default:
		return ErrConnectionReset
	}
}

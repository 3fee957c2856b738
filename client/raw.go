package client

import (
	"fmt"
	"io"
	"net"
	"time"
)

// RawResult is the outcome of a raw-socket exchange: the unparsed response
// bytes, or the transport error kind when the server dropped the
// connection or never answered.
type RawResult struct {
	Response []byte
	Elapsed  time.Duration
	ErrKind  ErrorKind
	Err      error
}

// OK reports whether any response bytes were read before the connection
// closed cleanly.
func (r RawResult) OK() bool { return r.ErrKind == ErrNone }

func (r RawResult) String() string { return string(r.Response) }

// SendRaw writes an arbitrary byte sequence to the server and reads until
// the connection closes or the deadline passes. This is the path for
// malformed-request tests, which need byte sequences net/http refuses to
// produce.
func (c *Client) SendRaw(raw []byte) RawResult {
	return c.SendRawTimeout(raw, c.timeout)
}

// SendRawTimeout is SendRaw with an explicit deadline covering the whole
// exchange.
func (c *Client) SendRawTimeout(raw []byte, timeout time.Duration) RawResult {
	result := RawResult{}
	started := time.Now()

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		result.Elapsed = time.Since(started)
		result.ErrKind = classify(err)
		result.Err = err
		c.logger.Printf("raw connect to %s failed (%s): %v", addr, result.ErrKind, err)
		return result
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	c.logger.Printf("raw send %d bytes to %s", len(raw), addr)
	if _, err := conn.Write(raw); err != nil {
		result.Elapsed = time.Since(started)
		result.ErrKind = classify(err)
		result.Err = err
		return result
	}

	response, err := io.ReadAll(conn)
	result.Elapsed = time.Since(started)
	result.Response = response
	if err != nil {
		result.ErrKind = classify(err)
		result.Err = err
	}
	c.logger.Printf("raw response %d bytes (%v)", len(response), result.Elapsed)
	return result
}

package wstests

import (
	"strings"
)

// httpSuite exercises protocol conformance with hand-built requests that
// net/http cannot produce.
func httpSuite() suiteDef {
	return suiteDef{
		name: "http",
		tests: []testDef{
			{"test_well_formed_get", httpWellFormedGet},
			{"test_missing_host_header", httpMissingHostHeader},
			{"test_bad_request_line", httpBadRequestLine},
			{"test_bad_http_version", httpBadHTTPVersion},
			{"test_header_without_colon", httpHeaderWithoutColon},
			{"test_keep_alive_two_requests", httpKeepAliveTwoRequests},
			{"test_chunked_request_body", httpChunkedRequestBody},
		},
	}
}

// rawStatus extracts the numeric status from the first line of a raw
// response, or "" when the response is not parseable.
func rawStatus(response string) string {
	line, _, _ := strings.Cut(response, "\r\n")
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return ""
	}
	return fields[1]
}

func httpWellFormedGet(t *T) {
	res := t.SendRaw("GET / HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "well-formed raw request should get a response")
	t.AssertEqual(rawStatus(res.String()), "200", "well-formed GET should succeed")
}

func httpMissingHostHeader(t *T) {
	res := t.SendRaw("GET / HTTP/1.1\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer rather than drop the connection")
	t.AssertEqual(rawStatus(res.String()), "400", "HTTP/1.1 without Host must be rejected")
}

func httpBadRequestLine(t *T) {
	res := t.SendRaw("GARBAGE\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer rather than drop the connection")
	t.AssertEqual(rawStatus(res.String()), "400", "unparseable request line must yield 400")
}

func httpBadHTTPVersion(t *T) {
	res := t.SendRaw("GET / HTTP/9.9\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer rather than drop the connection")
	status := rawStatus(res.String())
	t.AssertTrue(status == "400" || status == "505",
		"unsupported HTTP version should yield 400 or 505, got "+status)
}

func httpHeaderWithoutColon(t *T) {
	res := t.SendRaw("GET / HTTP/1.1\r\nHost: localhost\r\nBrokenHeader\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer rather than drop the connection")
	t.AssertEqual(rawStatus(res.String()), "400", "header line without a colon must yield 400")
}

func httpChunkedRequestBody(t *T) {
	name := uploadName()
	raw := "POST /upload/" + name + " HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"Transfer-Encoding: chunked\r\n" +
		"Connection: close\r\n\r\n" +
		"5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	res := t.SendRaw(raw)
	t.AssertTrue(res.OK(), "server should answer a chunked request")
	status := rawStatus(res.String())
	t.AssertTrue(status == "200" || status == "201",
		"chunked upload should be accepted, got "+status)

	got := t.Get("/upload/" + name)
	t.AssertStatus(got, 200, "chunk-uploaded file should be retrievable")
	t.AssertEqual(got.BodyString(), "hello world", "chunks should be decoded and concatenated")
}

func httpKeepAliveTwoRequests(t *T) {
	raw := "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n" +
		"GET / HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n"
	res := t.SendRaw(raw)
	t.AssertTrue(res.OK(), "pipelined requests should both be answered")
	t.AssertEqual(strings.Count(res.String(), "HTTP/1.1 200"), 2,
		"both requests on a kept-alive connection should be answered")
}

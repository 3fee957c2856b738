package wstests

import (
	"fmt"
	"strings"

	"github.com/webservtools/webserv-contract-tests/client"
)

func edgeSuite() suiteDef {
	return suiteDef{
		name: "edge",
		tests: []testDef{
			{"test_long_uri", edgeLongURI},
			{"test_many_headers", edgeManyHeaders},
			{"test_large_header_value", edgeLargeHeaderValue},
			{"test_empty_body_post", edgeEmptyBodyPost},
			{"test_survives_abrupt_close", edgeSurvivesAbruptClose},
		},
	}
}

func edgeLongURI(t *T) {
	path := "/" + strings.Repeat("a", 9000)
	res := t.Get(path)
	t.RequireTransportOK(res)
	t.AssertTrue(res.StatusCode == 414 || res.StatusCode == 404 || res.StatusCode == 400,
		fmt.Sprintf("oversized URI should be rejected cleanly, got %d", res.StatusCode))

	after := t.Get("/")
	t.AssertStatus(after, 200, "server should still serve after an oversized URI")
}

func edgeManyHeaders(t *T) {
	var raw strings.Builder
	raw.WriteString("GET / HTTP/1.1\r\nHost: localhost\r\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&raw, "X-Filler-%d: value-%d\r\n", i, i)
	}
	raw.WriteString("Connection: close\r\n\r\n")

	res := t.SendRaw(raw.String())
	t.AssertTrue(res.OK(), "server should answer a request with many headers")
	status := rawStatus(res.String())
	t.AssertTrue(status == "200" || status == "431" || status == "400",
		"many headers should be served or rejected cleanly, got "+status)
}

func edgeLargeHeaderValue(t *T) {
	res := t.Send("GET", "/", client.RequestOpts{
		Headers: map[string]string{"X-Large": strings.Repeat("v", 7000)},
	})
	t.RequireTransportOK(res)
	t.AssertTrue(res.StatusCode == 200 || res.StatusCode == 431 || res.StatusCode == 400,
		fmt.Sprintf("large header value should be served or rejected cleanly, got %d", res.StatusCode))
}

func edgeEmptyBodyPost(t *T) {
	res := t.Send("POST", "/upload/"+uploadName(), client.RequestOpts{
		Headers: map[string]string{"Content-Length": "0"},
	})
	t.RequireTransportOK(res)
	t.AssertTrue(res.StatusCode < 500,
		fmt.Sprintf("zero-length POST must not be a server error, got %d", res.StatusCode))
}

// edgeSurvivesAbruptClose sends half a request and hangs up, then checks the
// server still answers. Clients disappearing mid-request is routine traffic.
func edgeSurvivesAbruptClose(t *T) {
	_ = t.SendRaw("GET / HTTP/1.1\r\nHost: loc")

	after := t.Get("/")
	t.AssertStatus(after, 200, "server should survive a client hanging up mid-request")
}

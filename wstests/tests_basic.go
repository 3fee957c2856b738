package wstests

import (
	"fmt"

	"github.com/webservtools/webserv-contract-tests/client"
)

func basicSuite() suiteDef {
	return suiteDef{
		name: "basic",
		tests: []testDef{
			{"test_server_running", basicServerRunning},
			{"test_index_file_location", basicIndexFileLocation},
			{"test_static_file", basicStaticFile},
			{"test_unknown_path", basicUnknownPath},
			{"test_content_length_present", basicContentLengthPresent},
			{"test_sequential_requests", basicSequentialRequests},
		},
	}
}

func basicServerRunning(t *T) {
	res := t.Get("/")
	t.RequireTransportOK(res)
	t.AssertInRange(res.StatusCode, 200, 399, "root request should not be an error")
}

func basicIndexFileLocation(t *T) {
	res := t.Get("/")
	t.AssertStatus(res, 200, "index page should be served for the root path")
	t.AssertContains(res.BodyString(), "<!-- Test: index_file_location -->",
		"root path should serve the configured index file")
}

func basicStaticFile(t *T) {
	res := t.Get("/static/hello.txt")
	t.AssertStatus(res, 200, "static file should be served")
	t.AssertContains(res.BodyString(), "hello from the static fixture",
		"static file body should round-trip unchanged")
}

func basicUnknownPath(t *T) {
	res := t.Get(fmt.Sprintf("/no-such-page-%d.html", 424242))
	t.AssertStatus(res, 404, "unknown path should yield 404")
}

func basicContentLengthPresent(t *T) {
	res := t.Get("/")
	t.AssertStatus(res, 200, "index page should be served")
	length := res.Headers.Get("Content-Length")
	transfer := res.Headers.Get("Transfer-Encoding")
	t.AssertTrue(length != "" || transfer != "",
		"response must carry Content-Length or Transfer-Encoding")
	if length != "" {
		t.AssertEqual(length, fmt.Sprintf("%d", len(res.Body)),
			"Content-Length must match the body size")
	}
}

func basicSequentialRequests(t *T) {
	for i := 0; i < 5; i++ {
		res := t.Send("GET", "/", client.RequestOpts{})
		t.AssertStatus(res, 200, fmt.Sprintf("request %d of a sequential burst failed", i+1))
	}
}

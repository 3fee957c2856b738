package wstests

import (
	"strings"

	"github.com/webservtools/webserv-contract-tests/client"
)

func errorSuite() suiteDef {
	return suiteDef{
		name: "error",
		tests: []testDef{
			{"test_404_serves_error_page", errorNotFoundServesErrorPage},
			{"test_404_content_type", errorNotFoundContentType},
			{"test_413_payload_too_large", errorPayloadTooLarge},
			{"test_400_has_body_or_closes", errorBadRequestAnswered},
			{"test_error_does_not_leak_paths", errorDoesNotLeakPaths},
		},
	}
}

func errorNotFoundServesErrorPage(t *T) {
	res := t.Get("/missing/deeply/nested/file.bin")
	t.AssertStatus(res, 404, "missing nested path should yield 404")
	t.AssertContains(res.BodyString(), "Custom 404",
		"404 should serve the configured error page for any missing path")
}

func errorNotFoundContentType(t *T) {
	res := t.Get("/also-missing.html")
	t.AssertStatus(res, 404, "missing file should yield 404")
	t.AssertContains(res.Headers.Get("Content-Type"), "text/html",
		"the HTML error page should be labeled text/html")
}

func errorPayloadTooLarge(t *T) {
	body := strings.Repeat("z", 2*1024*1024)
	res := t.Send("POST", "/upload/"+uploadName(), client.RequestOpts{
		Headers: map[string]string{"Content-Type": "application/octet-stream"},
		Body:    []byte(body),
	})
	// A server may answer 413 before reading the whole body and reset the
	// rest; both surfaces count as a rejection.
	if res.OK() {
		t.AssertEqual(res.StatusCode, 413, "body over the server limit should yield 413")
	} else {
		t.AssertEqual(string(res.ErrKind), string(client.ErrConnectionReset),
			"an early rejection should surface as a connection reset")
	}
}

func errorBadRequestAnswered(t *T) {
	res := t.SendRaw("NOT-HTTP\r\n\r\n")
	t.AssertTrue(res.OK(), "malformed request should be answered, not silently dropped")
	t.AssertEqual(rawStatus(res.String()), "400", "malformed request should yield 400")
}

func errorDoesNotLeakPaths(t *T) {
	res := t.Get("/definitely-not-here.txt")
	t.AssertStatus(res, 404, "missing file should yield 404")
	t.AssertNotContains(res.BodyString(), "data/www",
		"error pages must not leak filesystem paths")
}

package wstests

import (
	"github.com/webservtools/webserv-contract-tests/client"
)

func securitySuite() suiteDef {
	return suiteDef{
		name: "security",
		tests: []testDef{
			{"test_path_traversal", securityPathTraversal},
			{"test_encoded_path_traversal", securityEncodedPathTraversal},
			{"test_null_byte_in_path", securityNullByteInPath},
			{"test_crlf_in_header_value", securityCRLFInHeaderValue},
			{"test_hidden_config_not_served", securityHiddenConfigNotServed},
		},
	}
}

// securityPathTraversal asks for a file above the document root. The request
// must not succeed, whatever the rejection surface.
func securityPathTraversal(t *T) {
	res := t.SendRaw("GET /../../etc/passwd HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer a traversal attempt")
	status := rawStatus(res.String())
	t.AssertTrue(status == "400" || status == "403" || status == "404",
		"traversal above the root must be refused, got "+status)
	t.AssertNotContains(res.String(), "root:", "must never serve /etc/passwd")
}

func securityEncodedPathTraversal(t *T) {
	res := t.SendRaw("GET /%2e%2e/%2e%2e/etc/passwd HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer an encoded traversal attempt")
	status := rawStatus(res.String())
	t.AssertTrue(status == "400" || status == "403" || status == "404",
		"percent-encoded traversal must be refused, got "+status)
	t.AssertNotContains(res.String(), "root:", "must never serve /etc/passwd")
}

func securityNullByteInPath(t *T) {
	res := t.SendRaw("GET /static/hello.txt%00.html HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer a null-byte path")
	status := rawStatus(res.String())
	t.AssertTrue(status == "400" || status == "404",
		"null byte in the path must be refused, got "+status)
}

func securityCRLFInHeaderValue(t *T) {
	res := t.SendRaw("GET / HTTP/1.1\r\nHost: localhost\r\nX-Inject: a\rX-Smuggled: b\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer a request with a bare CR in a header")
	status := rawStatus(res.String())
	t.AssertTrue(status == "400" || status == "200",
		"bare CR in a header value should be rejected or sanitized, got "+status)

	after := t.Send("GET", "/", client.RequestOpts{})
	t.AssertStatus(after, 200, "server should still serve after a header-injection attempt")
}

func securityHiddenConfigNotServed(t *T) {
	res := t.Get("/../conf/test.conf")
	t.RequireTransportOK(res)
	t.AssertNotEqual(res.StatusCode, 200, "server configuration must not be servable")
	t.AssertNotContains(res.BodyString(), "cgi_handler", "config contents must not leak")
}

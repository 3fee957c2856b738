package wstests

import (
	"strings"

	"github.com/webservtools/webserv-contract-tests/client"
)

func configSuite() suiteDef {
	return suiteDef{
		name: "config",
		tests: []testDef{
			{"test_custom_error_page", configCustomErrorPage},
			{"test_autoindex_listing", configAutoindexListing},
			{"test_body_size_limit", configBodySizeLimit},
			{"test_body_under_limit", configBodyUnderLimit},
			{"test_method_restriction", configMethodRestriction},
		},
	}
}

func configCustomErrorPage(t *T) {
	res := t.Get("/definitely-missing.html")
	t.AssertStatus(res, 404, "missing file should yield 404")
	t.AssertContains(res.BodyString(), "Custom 404",
		"404 response should serve the configured error page")
}

func configAutoindexListing(t *T) {
	res := t.Get("/static/")
	t.AssertStatus(res, 200, "autoindex location should list the directory")
	t.AssertContains(res.BodyString(), "hello.txt",
		"directory listing should name the files it contains")
}

func configBodySizeLimit(t *T) {
	body := strings.Repeat("x", 500)
	res := t.Send("POST", "/limited", client.RequestOpts{
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte(body),
	})
	t.AssertStatus(res, 413, "body over the location limit should be rejected")
}

func configBodyUnderLimit(t *T) {
	body := strings.Repeat("x", 50)
	res := t.Send("POST", "/limited", client.RequestOpts{
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte(body),
	})
	t.RequireTransportOK(res)
	t.AssertNotEqual(res.StatusCode, 413, "body under the location limit should be accepted")
}

func configMethodRestriction(t *T) {
	res := t.Send("POST", "/readonly/note.txt", client.RequestOpts{
		Body: []byte("attempt"),
	})
	t.AssertStatus(res, 405, "POST to a GET-only location should be refused")
}

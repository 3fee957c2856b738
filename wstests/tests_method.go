package wstests

import (
	"github.com/webservtools/webserv-contract-tests/client"
)

func methodSuite() suiteDef {
	return suiteDef{
		name: "method",
		tests: []testDef{
			{"test_get_allowed", methodGetAllowed},
			{"test_post_allowed", methodPostAllowed},
			{"test_delete_missing_file", methodDeleteMissingFile},
			{"test_not_allowed_has_allow_header", methodNotAllowedHasAllowHeader},
			{"test_unknown_method", methodUnknownMethod},
		},
	}
}

func methodGetAllowed(t *T) {
	res := t.Get("/readonly/note.txt")
	t.AssertStatus(res, 200, "GET on a GET-allowed location should succeed")
}

func methodPostAllowed(t *T) {
	res := t.Send("POST", "/cgi-bin/test.py", client.RequestOpts{
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte("payload"),
	})
	t.RequireTransportOK(res)
	t.AssertNotEqual(res.StatusCode, 405, "POST on a POST-allowed location should not be refused")
}

func methodDeleteMissingFile(t *T) {
	res := t.Send("DELETE", "/upload/never-created.txt", client.RequestOpts{})
	t.AssertStatus(res, 404, "DELETE of a nonexistent resource should yield 404")
}

func methodNotAllowedHasAllowHeader(t *T) {
	res := t.Send("DELETE", "/readonly/note.txt", client.RequestOpts{})
	t.AssertStatus(res, 405, "DELETE on a GET-only location should be refused")
	t.AssertNotEqual(res.Headers.Get("Allow"), "", "405 response must carry an Allow header")
}

func methodUnknownMethod(t *T) {
	res := t.SendRaw("BREW / HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer an unknown method, not drop the connection")
	status := rawStatus(res.String())
	t.AssertTrue(status == "501" || status == "405" || status == "400",
		"unknown method should yield 501, 405 or 400, got "+status)
}

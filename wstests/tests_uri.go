package wstests

func uriSuite() suiteDef {
	return suiteDef{
		name: "uri",
		tests: []testDef{
			{"test_percent_encoded_path", uriPercentEncodedPath},
			{"test_query_ignored_for_static", uriQueryIgnoredForStatic},
			{"test_repeated_slashes", uriRepeatedSlashes},
			{"test_dot_segment_normalized", uriDotSegmentNormalized},
			{"test_fragment_not_sent", uriFragmentNotSent},
		},
	}
}

func uriPercentEncodedPath(t *T) {
	res := t.SendRaw("GET /static/hello%2etxt HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer a percent-encoded path")
	t.AssertEqual(rawStatus(res.String()), "200", "percent-encoded dot should decode to the same file")
}

func uriQueryIgnoredForStatic(t *T) {
	res := t.Get("/static/hello.txt?cache=no")
	t.AssertStatus(res, 200, "query string on a static file should be ignored")
	t.AssertContains(res.BodyString(), "hello from the static fixture",
		"static body should be unaffected by the query string")
}

func uriRepeatedSlashes(t *T) {
	res := t.Get("//static//hello.txt")
	t.RequireTransportOK(res)
	t.AssertTrue(res.StatusCode == 200 || res.StatusCode == 404,
		"repeated slashes should be handled deterministically, not crash the server")

	after := t.Get("/")
	t.AssertStatus(after, 200, "server should still serve after a repeated-slash request")
}

func uriDotSegmentNormalized(t *T) {
	res := t.SendRaw("GET /static/../index.html HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer a dot-segment path")
	status := rawStatus(res.String())
	t.AssertTrue(status == "200" || status == "404" || status == "400",
		"in-root dot segment should resolve or be rejected cleanly, got "+status)
}

func uriFragmentNotSent(t *T) {
	// Fragments never leave the client; a raw request carrying one is
	// malformed in spirit but servers commonly just treat it as path bytes.
	res := t.SendRaw("GET /static/hello.txt#frag HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n")
	t.AssertTrue(res.OK(), "server should answer rather than drop the connection")
	status := rawStatus(res.String())
	t.AssertTrue(status == "200" || status == "404" || status == "400",
		"fragment bytes in the request target should not crash the server, got "+status)
}

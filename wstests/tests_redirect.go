package wstests

import (
	"strings"
)

func redirectSuite() suiteDef {
	return suiteDef{
		name: "redirect",
		tests: []testDef{
			{"test_permanent_redirect", redirectPermanent},
			{"test_temporary_redirect", redirectTemporary},
			{"test_redirect_not_followed", redirectNotFollowed},
			{"test_redirect_target_serves", redirectTargetServes},
		},
	}
}

func redirectPermanent(t *T) {
	res := t.Get("/redirect")
	t.AssertStatus(res, 301, "configured permanent redirect should yield 301")
	t.AssertEqual(res.Headers.Get("Location"), "/index.html",
		"301 response must carry the configured Location")
}

func redirectTemporary(t *T) {
	res := t.Get("/redirect-temp")
	t.AssertStatus(res, 302, "configured temporary redirect should yield 302")
	t.AssertEqual(res.Headers.Get("Location"), "/index.html",
		"302 response must carry the configured Location")
}

// redirectNotFollowed guards the harness's own contract: the client reports
// the 3xx itself instead of transparently chasing it.
func redirectNotFollowed(t *T) {
	res := t.Get("/redirect")
	t.RequireTransportOK(res)
	t.AssertInRange(res.StatusCode, 300, 399, "client must surface the redirect, not follow it")
	t.AssertFalse(strings.Contains(res.BodyString(), "<!-- Test: index_file_location -->"),
		"redirect response body must not be the target page")
}

func redirectTargetServes(t *T) {
	res := t.Get("/redirect")
	t.AssertStatus(res, 301, "redirect should be configured")

	target := t.Get(res.Headers.Get("Location"))
	t.AssertStatus(target, 200, "redirect target should be servable")
}

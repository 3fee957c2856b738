package wstests

import (
	"github.com/webservtools/webserv-contract-tests/client"
)

func cookieSuite() suiteDef {
	return suiteDef{
		name: "cookie",
		tests: []testDef{
			{"test_cookie_forwarded_to_cgi", cookieForwardedToCGI},
			{"test_set_cookie_passthrough", cookieSetCookiePassthrough},
			{"test_multiple_cookies", cookieMultipleCookies},
			{"test_no_spurious_set_cookie", cookieNoSpuriousSetCookie},
		},
	}
}

func cookieForwardedToCGI(t *T) {
	t.RequireInterpreter(".py")
	res := t.Send("GET", "/cgi-bin/test.py", client.RequestOpts{
		Headers: map[string]string{"Cookie": "session=xyz"},
	})
	t.AssertStatus(res, 200, "CGI script should execute")
	t.AssertContains(res.BodyString(), "cookie=session=xyz",
		"Cookie header should reach the script as HTTP_COOKIE")
}

func cookieSetCookiePassthrough(t *T) {
	t.RequireInterpreter(".py")
	res := t.Get("/cgi-bin/setcookie.py")
	t.AssertStatus(res, 200, "CGI script should execute")
	t.AssertContains(res.Headers.Get("Set-Cookie"), "session=abc123",
		"Set-Cookie emitted by the script should pass through to the client")
}

func cookieMultipleCookies(t *T) {
	t.RequireInterpreter(".py")
	res := t.Send("GET", "/cgi-bin/test.py", client.RequestOpts{
		Headers: map[string]string{"Cookie": "a=1; b=2"},
	})
	t.AssertStatus(res, 200, "CGI script should execute")
	t.AssertContains(res.BodyString(), "cookie=a=1; b=2",
		"all cookie pairs should be forwarded together")
}

func cookieNoSpuriousSetCookie(t *T) {
	res := t.Get("/static/hello.txt")
	t.AssertStatus(res, 200, "static file should be served")
	t.AssertEqual(res.Headers.Get("Set-Cookie"), "",
		"static responses should not invent cookies")
}

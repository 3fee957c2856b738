package wstests

import (
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/webservtools/webserv-contract-tests/client"
)

func cgiSuite() suiteDef {
	return suiteDef{
		name: "cgi",
		tests: []testDef{
			{"test_cgi_get", cgiGet},
			{"test_cgi_query_string", cgiQueryString},
			{"test_cgi_post_body", cgiPostBody},
			{"test_cgi_status_header", cgiStatusHeader},
			{"test_cgi_json_output", cgiJSONOutput},
			{"test_cgi_shell_script", cgiShellScript},
			{"test_cgi_concurrent", cgiConcurrent},
		},
	}
}

func cgiGet(t *T) {
	t.RequireInterpreter(".py")
	res := t.Get("/cgi-bin/test.py")
	t.AssertStatus(res, 200, "CGI script should execute")
	t.AssertContains(res.BodyString(), "method=GET", "script should see REQUEST_METHOD=GET")
}

func cgiQueryString(t *T) {
	t.RequireInterpreter(".py")
	res := t.Get("/cgi-bin/test.py?alpha=1&beta=two")
	t.AssertStatus(res, 200, "CGI script should execute")
	t.AssertContains(res.BodyString(), "query=alpha=1&beta=two",
		"query string should reach the script unmodified")
}

func cgiPostBody(t *T) {
	t.RequireInterpreter(".py")
	res := t.Send("POST", "/cgi-bin/test.py", client.RequestOpts{
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte("hello cgi"),
	})
	t.AssertStatus(res, 200, "CGI script should execute for POST")
	t.AssertContains(res.BodyString(), "body=hello cgi",
		"request body should reach the script on stdin")
}

func cgiStatusHeader(t *T) {
	t.RequireInterpreter(".py")
	res := t.Get("/cgi-bin/status.py")
	t.AssertStatus(res, 202, "Status header from the script should set the response status")
}

func cgiJSONOutput(t *T) {
	t.RequireInterpreter(".py")
	res := t.Get("/cgi-bin/json.py?flag=yes")
	t.AssertStatus(res, 200, "CGI script should execute")

	body := res.BodyString()
	t.AssertTrue(gjson.Valid(body), "script output should be valid JSON")
	t.AssertEqual(gjson.Get(body, "status").String(), "ok", "JSON status field")
	t.AssertEqual(gjson.Get(body, "method").String(), "GET", "JSON method field")
	t.AssertEqual(gjson.Get(body, "query").String(), "flag=yes", "JSON query field")
}

func cgiShellScript(t *T) {
	t.RequireInterpreter(".sh")
	res := t.Get("/cgi-bin/env.sh?x=1")
	t.AssertStatus(res, 200, "shell CGI script should execute")
	t.AssertContains(res.BodyString(), "query=x=1", "shell script should see the query string")
}

func cgiConcurrent(t *T) {
	t.RequireInterpreter(".py")

	const workers = 8
	results := make([]client.HTTPResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = t.Get(fmt.Sprintf("/cgi-bin/test.py?worker=%d", i))
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		t.AssertStatus(res, 200, fmt.Sprintf("concurrent CGI request %d failed", i))
		t.AssertContains(res.BodyString(), fmt.Sprintf("query=worker=%d", i),
			"each concurrent request should get its own script output")
	}
}

package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	noop := func(c *Context) {}
	r := NewRegistry()
	r.Register(Suite{Name: "basic", Tests: []TestCase{
		{Name: "test_server_running", Run: noop},
		{Name: "test_get_request", Run: noop},
	}})
	r.Register(Suite{Name: "invalid", Standalone: true, Tests: []TestCase{
		{Name: "test_empty_config_file", Run: noop},
	}})
	r.Register(Suite{Name: "cgi", Tests: []TestCase{
		{Name: "test_query_string", Run: noop},
	}})
	return r
}

func planIDs(plan []PlannedTest) []string {
	var ids []string
	for _, pt := range plan {
		ids = append(ids, pt.ID().String())
	}
	return ids
}

func TestResolveAllIsUnionWithoutDuplicates(t *testing.T) {
	plan, err := newTestRegistry().Resolve(SuiteAll, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"basic.test_server_running",
		"basic.test_get_request",
		"invalid.test_empty_config_file",
		"cgi.test_query_string",
	}, planIDs(plan))
}

func TestResolveSingleSuite(t *testing.T) {
	plan, err := newTestRegistry().Resolve("basic", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"basic.test_server_running", "basic.test_get_request"}, planIDs(plan))
}

func TestResolveUnknownSuiteIsDiscoveryError(t *testing.T) {
	_, err := newTestRegistry().Resolve("bogus", "")
	var derr *DiscoveryError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Error(), "bogus")
}

func TestResolveSingleTestByName(t *testing.T) {
	plan, err := newTestRegistry().Resolve(SuiteAll, "test_query_string")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "cgi.test_query_string", plan[0].ID().String())
}

func TestResolveSingleTestWithoutPrefix(t *testing.T) {
	plan, err := newTestRegistry().Resolve(SuiteAll, "query_string")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "cgi.test_query_string", plan[0].ID().String())
}

func TestResolveUnknownTestIsDiscoveryError(t *testing.T) {
	_, err := newTestRegistry().Resolve(SuiteAll, "nonexistent_name")
	var derr *DiscoveryError
	require.ErrorAs(t, err, &derr)
}

func TestResolveAmbiguousTestIsDiscoveryError(t *testing.T) {
	noop := func(c *Context) {}
	r := newTestRegistry()
	r.Register(Suite{Name: "edge", Tests: []TestCase{
		{Name: "test_get_request", Run: noop},
	}})

	_, err := r.Resolve(SuiteAll, "get_request")
	var derr *DiscoveryError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Error(), "ambiguous")

	// Narrowing to one suite makes the same name unambiguous.
	plan, err := r.Resolve("edge", "get_request")
	require.NoError(t, err)
	require.Len(t, plan, 1)
}

func TestRequiresServer(t *testing.T) {
	r := newTestRegistry()

	plan, err := r.Resolve("invalid", "")
	require.NoError(t, err)
	assert.False(t, RequiresServer(plan), "standalone suites do not need the shared server")

	plan, err = r.Resolve(SuiteAll, "")
	require.NoError(t, err)
	assert.True(t, RequiresServer(plan))
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := newTestRegistry()
	assert.Panics(t, func() {
		r.Register(Suite{Name: "basic", Tests: []TestCase{{Name: "test_x", Run: func(c *Context) {}}}})
	})
}

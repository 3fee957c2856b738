package framework

import (
	"fmt"
	"strings"
)

// SuiteAll is the selection name for the union of every registered suite.
const SuiteAll = "all"

// TestCase is one named test inside a suite. SourceFn optionally holds the
// underlying typed test function so its source text can be recovered for
// single-test failure logs; Run is the wrapper actually executed.
type TestCase struct {
	Name     string
	Run      func(*Context)
	SourceFn interface{}
}

// Suite is a named, ordered group of test cases with optional per-test
// setup/teardown hooks. Standalone suites manage server processes themselves
// and do not need the shared server-under-test to be running.
type Suite struct {
	Name       string
	Standalone bool
	Setup      func(*Context)
	Teardown   func(*Context)
	Tests      []TestCase
}

// DiscoveryError reports a malformed test selection: an unknown suite, an
// unknown test name, or a test name matching more than one test. It is fatal
// before any test runs.
type DiscoveryError struct {
	Request string
	Reason  string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %s", e.Request, e.Reason)
}

// PlannedTest is one (suite, test) pair in a resolved execution plan.
type PlannedTest struct {
	Suite *Suite
	Case  TestCase
}

func (p PlannedTest) ID() TestID {
	return TestID{Suite: p.Suite.Name, Name: p.Case.Name}
}

// Registry holds every declared suite. Suites are registered explicitly at
// startup; there is no reflective scanning.
type Registry struct {
	suites []*Suite
	byName map[string]*Suite
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Suite{}}
}

// Register adds a suite. Duplicate names and empty suites are registration
// bugs, caught at startup.
func (r *Registry) Register(s Suite) {
	if s.Name == "" || len(s.Tests) == 0 {
		panic(fmt.Sprintf("suite %q registered with no tests", s.Name))
	}
	if _, dup := r.byName[s.Name]; dup {
		panic(fmt.Sprintf("suite %q registered twice", s.Name))
	}
	copied := s
	r.suites = append(r.suites, &copied)
	r.byName[s.Name] = &copied
}

// SuiteNames returns the registered suite names in registration order.
func (r *Registry) SuiteNames() []string {
	var names []string
	for _, s := range r.suites {
		names = append(names, s.Name)
	}
	return names
}

// Resolve turns a run request into a concrete ordered execution plan.
// suite may be a registered suite name or SuiteAll; test, when non-empty,
// narrows the plan to the single test with that name (a leading "test_"
// prefix may be omitted).
func (r *Registry) Resolve(suite, test string) ([]PlannedTest, error) {
	var selected []*Suite
	if suite == SuiteAll || suite == "" {
		selected = r.suites
	} else {
		s, ok := r.byName[suite]
		if !ok {
			return nil, &DiscoveryError{
				Request: fmt.Sprintf("suite %q", suite),
				Reason:  "no such suite; known suites: " + strings.Join(r.SuiteNames(), ", "),
			}
		}
		selected = []*Suite{s}
	}

	var plan []PlannedTest
	for _, s := range selected {
		for _, tc := range s.Tests {
			plan = append(plan, PlannedTest{Suite: s, Case: tc})
		}
	}

	if test == "" {
		return plan, nil
	}

	var matches []PlannedTest
	for _, pt := range plan {
		if pt.Case.Name == test || pt.Case.Name == "test_"+test {
			matches = append(matches, pt)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &DiscoveryError{
			Request: fmt.Sprintf("test %q", test),
			Reason:  "no test with that name in the selected suites",
		}
	case 1:
		return matches, nil
	default:
		var where []string
		for _, m := range matches {
			where = append(where, m.ID().String())
		}
		return nil, &DiscoveryError{
			Request: fmt.Sprintf("test %q", test),
			Reason:  "name is ambiguous, matches: " + strings.Join(where, ", "),
		}
	}
}

// RequiresServer reports whether any test in the plan needs the shared
// server-under-test process.
func RequiresServer(plan []PlannedTest) bool {
	for _, pt := range plan {
		if !pt.Suite.Standalone {
			return true
		}
	}
	return false
}

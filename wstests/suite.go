package wstests

import (
	"github.com/webservtools/webserv-contract-tests/framework"
)

type testDef struct {
	name string
	fn   func(*T)
}

type suiteDef struct {
	name       string
	standalone bool
	setup      func(*T)
	teardown   func(*T)
	tests      []testDef
}

func wrap(env *Env, fn func(*T)) func(*framework.Context) {
	if fn == nil {
		return nil
	}
	return func(c *framework.Context) {
		fn(newT(c, env))
	}
}

func buildSuite(env *Env, def suiteDef) framework.Suite {
	suite := framework.Suite{
		Name:       def.name,
		Standalone: def.standalone,
		Setup:      wrap(env, def.setup),
		Teardown:   wrap(env, def.teardown),
	}
	for _, td := range def.tests {
		suite.Tests = append(suite.Tests, framework.TestCase{
			Name:     td.name,
			Run:      wrap(env, td.fn),
			SourceFn: td.fn,
		})
	}
	return suite
}

// Register adds every webserv suite to the registry. The order here is the
// execution order for full runs.
func Register(reg *framework.Registry, env *Env) {
	for _, def := range []suiteDef{
		basicSuite(),
		invalidSuite(),
		configSuite(),
		httpSuite(),
		methodSuite(),
		uploadSuite(),
		cgiSuite(),
		uriSuite(),
		cookieSuite(),
		redirectSuite(),
		edgeSuite(),
		errorSuite(),
		securitySuite(),
		performanceSuite(),
	} {
		reg.Register(buildSuite(env, def))
	}
}

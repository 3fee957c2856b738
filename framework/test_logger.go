package framework

// TestLogger receives progress callbacks while a plan executes. The console
// implementation lives in package main; tests use a null or recording one.
type TestLogger interface {
	SuiteStarted(suite string)
	TestStarted(id TestID)
	TestFinished(result TestResult)
}

type nullTestLogger struct{}

func (n nullTestLogger) SuiteStarted(string)     {}
func (n nullTestLogger) TestStarted(TestID)      {}
func (n nullTestLogger) TestFinished(TestResult) {}

// NullTestLogger returns a TestLogger that ignores all callbacks.
func NullTestLogger() TestLogger { return nullTestLogger{} }

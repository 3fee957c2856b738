package framework

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"runtime"
)

// FuncSource returns the literal source text of fn, a top-level function in
// this module. It is used to embed a failing test's own code into its log
// for offline debugging during single-test runs. The source file must be
// present on disk where it was when the binary was built.
func FuncSource(fn interface{}) (string, error) {
	if fn == nil {
		return "", errors.New("no source function recorded")
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "", errors.New("not a function")
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "", errors.New("function has no runtime info")
	}
	file, line := rf.FileLine(v.Pointer())

	src, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file, src, parser.ParseComments)
	if err != nil {
		return "", err
	}

	for _, decl := range parsed.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		start := fset.Position(fd.Pos())
		end := fset.Position(fd.End())
		if line < start.Line || line > end.Line {
			continue
		}
		return string(src[start.Offset:end.Offset]), nil
	}
	return "", errors.New("declaration not found in " + file)
}

package server

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"

	"github.com/webservtools/webserv-contract-tests/framework"
)

// Unavailable marks an extension whose interpreter could not be found.
const Unavailable = "unavailable"

// InterpreterMap maps a script extension to the resolved interpreter path,
// "" for extensions that need none (.cgi), or Unavailable.
type InterpreterMap map[string]string

// Missing returns the unresolved extensions, sorted.
func (m InterpreterMap) Missing() []string {
	var out []string
	for ext, path := range m {
		if path == Unavailable {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

var cgiHandlerLine = regexp.MustCompile(`^(\s*)cgi_handler\s+(\.\w+)\s*([^;]*?)\s*;?\s*$`)

// ResolveInterpreters searches PATH for the first candidate of each
// extension. Resolution is never fatal; CGI tests relying on a missing
// interpreter fail individually instead.
func ResolveInterpreters(candidates map[string][]string, logger framework.Logger) InterpreterMap {
	if logger == nil {
		logger = framework.NullLogger()
	}
	resolved := InterpreterMap{}
	for ext, names := range candidates {
		if len(names) == 0 {
			resolved[ext] = "" // compiled CGI binaries run directly
			continue
		}
		resolved[ext] = Unavailable
		for _, name := range names {
			if path, err := exec.LookPath(name); err == nil {
				resolved[ext] = path
				break
			}
		}
		if resolved[ext] == Unavailable {
			logger.Printf("warning: no interpreter found for %s files (tried: %s)", ext, strings.Join(names, ", "))
		}
	}
	return resolved
}

// RewriteConfig materializes the interpreter map into the cgi_handler
// directives of the server configuration, in place. Pre-existing directives
// pointing at a valid executable are kept. Returns the number of rewritten
// lines; zero handler lines in the file is an error because the fixed
// config is expected to declare them.
func RewriteConfig(configPath string, interpreters InterpreterMap, logger framework.Logger) (int, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return 0, fmt.Errorf("read server config: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	rewritten := 0
	for i, line := range lines {
		m := cgiHandlerLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent, ext, existing := m[1], m[2], m[3]

		if existing != "" && isExecutable(existing) {
			lines[i] = fmt.Sprintf("%scgi_handler %s %s;", indent, ext, existing)
			rewritten++
			continue
		}
		if existing != "" {
			logger.Printf("warning: existing interpreter for %s is invalid: %s", ext, existing)
		}

		path, known := interpreters[ext]
		if !known || path == Unavailable {
			lines[i] = fmt.Sprintf("%scgi_handler %s ;", indent, ext)
		} else {
			lines[i] = fmt.Sprintf("%scgi_handler %s %s;", indent, ext, path)
		}
		rewritten++
	}
	if rewritten == 0 {
		return 0, fmt.Errorf("no cgi_handler directives found in %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return 0, fmt.Errorf("write server config: %w", err)
	}
	return rewritten, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode()&0o111 != 0
}

// Package expand resolves variable expressions to their final string
// values: $VAR and ${VAR} read the process environment, $(cmd) substitutes
// the trimmed output of a shell command. A backslash before the dollar sign
// suppresses expansion. Unset variables and failing commands expand to the
// empty string.
package expand

import (
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
)

// The leading group consumes the character before the dollar sign, so an
// escaping backslash never matches. Variable names are restricted to
// letters and underscores.
var (
	reDollar       = regexp.MustCompile(`(^|[^\\])\$([a-zA-Z_]+)`)
	reDollarBraces = regexp.MustCompile(`(^|[^\\])\$\{([a-zA-Z_]+)\}`)
	reDollarParens = regexp.MustCompile(`(^|[^\\])\$\((.+?[^\\])\)`)
)

// Expand resolves $(cmd) substitutions first, then environment references.
// Command output may therefore contain $VAR references that get expanded in
// turn, matching how interactive shells behave.
func Expand(s string) string {
	return Env(Command(s))
}

// Env expands $VAR and ${VAR} references from the process environment.
func Env(s string) string {
	s = replaceGroups(reDollar, s, envValue)
	return replaceGroups(reDollarBraces, s, envValue)
}

// Command replaces every $(cmd) with the command's stdout, trimmed of
// trailing newlines. A command that exits non-zero expands to the empty
// string.
func Command(s string) string {
	return replaceGroups(reDollarParens, s, commandOutput)
}

// Path expands environment references in a filesystem path. Command
// substitution is deliberately not applied to paths.
func Path(p string) string {
	return Env(p)
}

// replaceGroups is ReplaceAllStringFunc with access to the capture groups:
// group 1 is the preserved leading character, group 2 the expandable inner
// text.
func replaceGroups(re *regexp.Regexp, s string, resolve func(inner string) string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		groups := re.FindStringSubmatch(m)
		return groups[1] + resolve(groups[2])
	})
}

func envValue(name string) string {
	return os.Getenv(name)
}

func commandOutput(command string) string {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\n")
}

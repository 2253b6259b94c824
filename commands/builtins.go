package commands

import (
	"sort"

	"github.com/josephlewis42/watchsh/core/shell"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

// ShellBuiltin is a command that runs inside the interpreter rather than as a
// child process.
type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// IsBuiltin reports whether name is a registered builtin.
func IsBuiltin(name string) bool {
	_, ok := AllBuiltins[name]
	return ok
}

// BuiltinNames lists the registered builtins in sorted order.
func BuiltinNames() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func addBuiltin(name string, builtin ShellBuiltinFunc) {
	if !shell.IsBuiltinName(name) {
		panic("unknown builtin name: " + name)
	}
	AllBuiltins[name] = builtin
}

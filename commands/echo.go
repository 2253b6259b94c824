package commands

import (
	"fmt"
)

// Echo writes each argument followed by a space, then a newline. It takes no
// flags.
func Echo(s *Shell, args []string) int {
	w := s.IO().Stdout()
	for _, arg := range args[1:] {
		fmt.Fprint(w, arg, " ")
	}
	fmt.Fprintln(w)

	return 0
}

func init() {
	addBuiltin("echo", Echo)
}

package commands

import (
	"fmt"
	"os"
)

// Pwd prints the working directory of the shell.
func Pwd(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.Run(s.IO(), args, func() int {
		pwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(s.IO().Stderr(), "pwd: %v\n", err)
			return 1
		}
		fmt.Fprintln(s.IO().Stdout(), pwd)
		return 0
	})
}

func init() {
	addBuiltin("pwd", Pwd)
}

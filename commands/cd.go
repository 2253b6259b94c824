package commands

import (
	"fmt"
	"os"
)

// Cd is the cd shell builtin. Children started afterwards inherit the new
// directory.
func Cd(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "cd <path>",
		Short: "Change the shell working directory.",
	}

	return cmd.Run(s.IO(), args, func() int {
		opts := cmd.Flags().Args()
		if len(opts) != 1 {
			fmt.Fprintln(s.IO().Stderr(), "cd: usage: cd <path>")
			return 1
		}

		if err := os.Chdir(opts[0]); err != nil {
			fmt.Fprintf(s.IO().Stderr(), "cd: %v\n", err)
			return 1
		}

		if pwd, err := os.Getwd(); err == nil {
			s.Env.Setenv(EnvPWD, pwd)
		}
		return 0
	})
}

func init() {
	addBuiltin("cd", Cd)
}

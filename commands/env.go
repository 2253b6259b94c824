package commands

import (
	"fmt"
)

// Env prints the shell environment, or a single variable.
func Env(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "env [NAME]",
		Short: "Print the environment, or the value of NAME.",
	}

	return cmd.Run(s.IO(), args, func() int {
		w := s.IO().Stdout()

		switch names := cmd.Flags().Args(); len(names) {
		case 0:
			for _, envDef := range s.Env.Environ() {
				fmt.Fprintln(w, envDef)
			}
		case 1:
			value, ok := s.Env.LookupEnv(names[0])
			if !ok {
				fmt.Fprintln(s.IO().Stderr(), "Environment variable not found")
				return 1
			}
			fmt.Fprintln(w, value)
		default:
			fmt.Fprintln(s.IO().Stderr(), "Usage: env [NAME]")
			return 1
		}

		return 0
	})
}

// Setenv creates or overwrites a variable passed to commands started
// afterwards.
func Setenv(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "setenv VAR VALUE",
		Short: "Set an environment variable.",
	}

	return cmd.Run(s.IO(), args, func() int {
		opts := cmd.Flags().Args()
		if len(opts) != 2 {
			fmt.Fprintln(s.IO().Stderr(), "Usage: setenv VAR VALUE")
			return 1
		}

		if err := s.Env.Setenv(opts[0], opts[1]); err != nil {
			fmt.Fprintln(s.IO().Stderr(), err)
			return 1
		}
		return 0
	})
}

func init() {
	addBuiltin("env", Env)
	addBuiltin("setenv", Setenv)
}

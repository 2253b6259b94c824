package commands

// Exit quits the shell.
func Exit(s *Shell, args []string) int {
	cmd := &SimpleCommand{
		Use:   "exit",
		Short: "Exit the shell.",
	}

	return cmd.Run(s.IO(), args, func() int {
		s.Quit = true
		return 0
	})
}

func init() {
	addBuiltin("exit", Exit)
}

package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/watchsh/core/vos"
	getopt "github.com/pborman/getopt/v2"
)

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(vio vos.VIO, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(args, nil); err != nil {
		fmt.Fprintf(vio.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(vio.Stderr())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(vio.Stdout())
		return 0
	}

	return callback()
}

var (
	ColorBoldBlue = color.New(color.FgBlue, color.Bold)
	ColorBoldRed  = color.New(color.FgRed, color.Bold)
)

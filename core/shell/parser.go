package shell

import (
	"errors"
	"strings"
)

const (
	pipeSeparator   = "|"
	backgroundToken = "&"
)

// BuiltinNames is the fixed set of commands the interpreter runs itself.
var BuiltinNames = []string{"exit", "pwd", "cd", "echo", "env", "setenv"}

// ErrEmptyStage is returned for a pipeline with nothing on one side of the '|'.
var ErrEmptyStage = errors.New("syntax error near unexpected token `|'")

// Kind is the classification of a line.
type Kind int

const (
	// KindEmpty is a line with nothing to run.
	KindEmpty Kind = iota
	// KindBuiltin is a command run by the interpreter itself.
	KindBuiltin
	// KindExternal is a single program run as a child process.
	KindExternal
	// KindPipeline is two programs joined by a pipe.
	KindPipeline
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBuiltin:
		return "builtin"
	case KindExternal:
		return "external"
	case KindPipeline:
		return "pipeline"
	default:
		return "unknown"
	}
}

// Command is a classified line.
type Command struct {
	Kind Kind

	// Args holds the tokens of a builtin or external command, redirection
	// operators included.
	Args []string

	// Background is set when an external command ended with '&'.
	Background bool

	// Left and Right hold the two stages of a pipeline.
	Left, Right []string
}

// Parser classifies lines.
type Parser struct {
	// MaxArgs bounds the tokens of each command, zero means unbounded.
	MaxArgs int

	// IsBuiltin reports whether a name is run by the interpreter. If nil,
	// IsBuiltinName is used.
	IsBuiltin func(name string) bool
}

// IsBuiltinName reports whether name is in BuiltinNames. Matching is exact and
// case sensitive.
func IsBuiltinName(name string) bool {
	for _, builtin := range BuiltinNames {
		if builtin == name {
			return true
		}
	}
	return false
}

// Parse classifies line.
//
// Only the first '|' is significant: everything after it, further pipes
// included, is tokenized as the second stage.
func (p *Parser) Parse(line string) (*Command, error) {
	if left, right, found := strings.Cut(line, pipeSeparator); found {
		leftArgs, err := Tokenize(left, p.MaxArgs)
		if err != nil {
			return nil, err
		}
		rightArgs, err := Tokenize(right, p.MaxArgs)
		if err != nil {
			return nil, err
		}
		if len(leftArgs) == 0 || len(rightArgs) == 0 {
			return nil, ErrEmptyStage
		}
		return &Command{Kind: KindPipeline, Left: leftArgs, Right: rightArgs}, nil
	}

	args, err := Tokenize(line, p.MaxArgs)
	if err != nil {
		return nil, err
	}

	cmd := &Command{Kind: KindEmpty}
	if n := len(args); n > 0 && args[n-1] == backgroundToken {
		cmd.Background = true
		args = args[:n-1]
	}
	if len(args) == 0 {
		return cmd, nil
	}

	cmd.Args = args
	if p.isBuiltin(args[0]) {
		cmd.Kind = KindBuiltin
		cmd.Background = false
	} else {
		cmd.Kind = KindExternal
	}
	return cmd, nil
}

func (p *Parser) isBuiltin(name string) bool {
	if p.IsBuiltin != nil {
		return p.IsBuiltin(name)
	}
	return IsBuiltinName(name)
}

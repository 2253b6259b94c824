package shell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultMaxLineLength is the longest line accepted by default, in bytes.
	DefaultMaxLineLength = 1024
	// DefaultMaxArgs is the default maximum number of tokens in one command.
	DefaultMaxArgs = 128
)

var (
	// ErrTooManyArgs is returned when a command has more tokens than allowed.
	ErrTooManyArgs = errors.New("too many arguments")
	// ErrLineTooLong is returned when a line exceeds the configured length.
	ErrLineTooLong = errors.New("line too long")
)

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t'
}

// Tokenize splits line into tokens separated by runs of spaces and tabs.
// Quotes and backslashes are ordinary characters. A blank line yields no
// tokens and no error.
func Tokenize(line string, maxArgs int) ([]string, error) {
	tokens := strings.FieldsFunc(line, isSeparator)
	if maxArgs > 0 && len(tokens) > maxArgs {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", ErrTooManyArgs, len(tokens), maxArgs)
	}
	return tokens, nil
}

// CheckLine rejects lines longer than maxLen bytes. A non-positive maxLen
// disables the check.
func CheckLine(line string, maxLen int) error {
	if maxLen > 0 && len(line) > maxLen {
		return fmt.Errorf("%w: %d bytes, at most %d allowed", ErrLineTooLong, len(line), maxLen)
	}
	return nil
}

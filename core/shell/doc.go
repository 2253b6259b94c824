// Package shell is the command execution engine of the interpreter.
//
// A line goes through these steps:
//
// 1. The line is split at the first '|' into two pipeline stages, or kept
// whole.
//
// 2. Each piece is broken into tokens on spaces and tabs. There is no quoting,
// escaping or expansion.
//
// 3. A trailing '&' token marks a lone command as background.
//
// 4. The first '<' or '>' followed by a file name sets up a redirection and
// cuts the argument list at the operator.
//
// 5. Built-ins run in the interpreter; everything else is started as a child
// process found through PATH.
//
// 6. Foreground commands are waited on under a watchdog that kills them once a
// fixed timeout passes. Pipelines are waited on without one and background
// commands aren't waited on at all.
package shell

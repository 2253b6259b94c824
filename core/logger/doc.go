// Package logger is a standardized event logging framework for the shell.
//
// Events are written as newline delimited JSON, one protobuf Struct per line,
// so the log can be read back with protojson or any JSON tooling.
package logger

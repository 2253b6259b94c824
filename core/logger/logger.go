package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// EventType names a kind of event.
type EventType string

const (
	EventSessionStart    EventType = "session_start"
	EventRunCommand      EventType = "run_command"
	EventBuiltin         EventType = "builtin"
	EventLaunchFailure   EventType = "launch_failure"
	EventRedirectFailure EventType = "redirect_failure"
	EventWatchdogKill    EventType = "watchdog_kill"
	EventBackgroundStart EventType = "background_start"
	EventBackgroundDone  EventType = "background_done"
	EventSyntaxError     EventType = "syntax_error"
)

// Entry field names.
const (
	fieldTimestamp = "timestamp_micros"
	fieldSessionID = "session_id"
	fieldType      = "type"
	fieldEvent     = "event"
)

// LogEntry is a single recorded event.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	Type            EventType
	Event           map[string]interface{}
}

// GetString returns a string field of the event, or "" if it's missing.
func (le *LogEntry) GetString(key string) string {
	if s, ok := le.Event[key].(string); ok {
		return s
	}
	return ""
}

// GetStrings returns a list field of the event.
func (le *LogEntry) GetStrings(key string) []string {
	list, _ := le.Event[key].([]interface{})
	var out []string
	for _, v := range list {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// ToProto converts the entry to a protobuf Struct.
func (le *LogEntry) ToProto() (*structpb.Struct, error) {
	event := le.Event
	if event == nil {
		event = map[string]interface{}{}
	}

	return structpb.NewStruct(map[string]interface{}{
		fieldTimestamp: le.TimestampMicros,
		fieldSessionID: le.SessionID,
		fieldType:      string(le.Type),
		fieldEvent:     event,
	})
}

// FromProto parses an entry produced by ToProto.
func FromProto(st *structpb.Struct) (*LogEntry, error) {
	raw := st.AsMap()

	typ, ok := raw[fieldType].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("log entry missing %q", fieldType)
	}
	le := &LogEntry{Type: EventType(typ)}
	le.SessionID, _ = raw[fieldSessionID].(string)
	if ts, ok := raw[fieldTimestamp].(float64); ok {
		le.TimestampMicros = int64(ts)
	}
	le.Event, _ = raw[fieldEvent].(map[string]interface{})
	return le, nil
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction event logs for the shell.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			st, err := le.ToProto()
			if err != nil {
				return err
			}
			entry, err := protojson.Marshal(st)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) recordEvent(sessionID string, typ EventType, event map[string]interface{}) error {
	le := &LogEntry{}
	le.TimestampMicros = time.Now().UnixMicro()
	le.SessionID = sessionID
	le.Type = typ
	le.Event = event

	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: uuid.NewString()}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record logs an event of the given type.
func (l *SessionLogger) Record(typ EventType, event map[string]interface{}) error {
	return l.Logger.recordEvent(l.sessionID, typ, event)
}

// Argv converts an argument vector to a loggable list.
func Argv(args []string) []interface{} {
	out := make([]interface{}, len(args))
	for i, arg := range args {
		out[i] = arg
	}
	return out
}

// ErrorString formats an error for an event field.
func ErrorString(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var st structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &st); err != nil {
			return err
		}

		logEntry, err := FromProto(&st)
		if err != nil {
			return err
		}

		handler(logEntry)
	}
	return nil
}

func NewReport() *Report {
	return &Report{
		LaunchFailures: NewPathCounter("command", "error"),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand     RunCommandReport `json:"run_command_report"`
	Builtins       StrCounter       `json:"builtin_report"`
	LaunchFailures *PathCounter     `json:"launch_failures"`
	Watchdog       WatchdogReport   `json:"watchdog_report"`
	Background     BackgroundReport `json:"background_report"`
	SyntaxErrors   int              `json:"syntax_errors"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch le.Type {
	case EventRunCommand:
		r.RunCommand.update(le)
	case EventBuiltin:
		r.Builtins.Increment(firstOrEmpty(le.GetStrings("command")))
	case EventLaunchFailure:
		if r.LaunchFailures == nil {
			r.LaunchFailures = NewPathCounter("command", "error")
		}
		r.LaunchFailures.Increment(firstOrEmpty(le.GetStrings("command")), le.GetString("error"))
	case EventWatchdogKill:
		r.Watchdog.update(le)
	case EventBackgroundStart, EventBackgroundDone:
		r.Background.update(le)
	case EventSyntaxError:
		r.SyntaxErrors++
	case EventSessionStart, EventRedirectFailure:
		// Ignore
	default:
		r.InvalidEntries.Increment(string(le.Type))
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Kind of command: external or pipeline.
	Kinds StrCounter `json:"kinds"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(firstOrEmpty(le.GetStrings("command")))
	r.Kinds.Increment(le.GetString("kind"))
}

type WatchdogReport struct {
	Kills        int        `json:"kills"`
	CommandNames StrCounter `json:"command_names"`
}

func (r *WatchdogReport) update(le *LogEntry) {
	r.Kills++
	r.CommandNames.Increment(firstOrEmpty(le.GetStrings("command")))
}

type BackgroundReport struct {
	Started  int        `json:"started"`
	Finished int        `json:"finished"`
	Statuses StrCounter `json:"statuses"`
}

func (r *BackgroundReport) update(le *LogEntry) {
	switch le.Type {
	case EventBackgroundStart:
		r.Started++
	case EventBackgroundDone:
		r.Finished++
		r.Statuses.Increment(le.GetString("status"))
	}
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// Len returns the number of distinct keys.
func (s *StrCounter) Len() int {
	return len(s.internal)
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic(fmt.Sprintf("wrong number of columns to add, got %d want %d", len(toAdd), len(ctr.cols)))
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}

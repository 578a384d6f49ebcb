// Package activitylog records what each pennywise invocation did in an
// append-only CSV file.
package activitylog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcomes recorded for an action.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Action    string
	Target    string // category name or file path the action worked on
	Outcome   string
	Message   string
}

// Header is the CSV header of an activity log file.
const Header = "timestamp,run_id,action,target,outcome,message"

const (
	numFields  = 6
	colTime    = 0
	colRunID   = 1
	colAction  = 2
	colTarget  = 3
	colOutcome = 4
	colMessage = 5
)

// NewRunID returns an identifier shared by every entry of one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colAction] = e.Action
	row[colTarget] = e.Target
	row[colOutcome] = e.Outcome
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Action:    record[colAction],
		Target:    record[colTarget],
		Outcome:   record[colOutcome],
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to the log at path, creating the file, its
// directory and the header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating activity log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder collects the entries of one invocation under a single run id.
// A Recorder with an empty path discards everything.
type Recorder struct {
	path    string
	runID   string
	now     func() time.Time
	entries []Entry
}

// NewRecorder returns a Recorder that will append to path on Flush.
func NewRecorder(path string) *Recorder {
	return &Recorder{path: path, runID: NewRunID(), now: time.Now}
}

// RunID returns the id stamped on every recorded entry.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record notes the result of one action. A nil err is recorded as ok with
// msg; otherwise the error text is recorded.
func (r *Recorder) Record(action, target, msg string, err error) {
	if r.path == "" {
		return
	}
	e := Entry{
		Timestamp: r.now(),
		RunID:     r.runID,
		Action:    action,
		Target:    target,
		Outcome:   OutcomeOK,
		Message:   msg,
	}
	if err != nil {
		e.Outcome = OutcomeError
		e.Message = err.Error()
	}
	r.entries = append(r.entries, e)
}

// Flush appends the recorded entries to the log and clears them.
func (r *Recorder) Flush() error {
	if r.path == "" || len(r.entries) == 0 {
		return nil
	}
	if err := Append(r.path, r.entries); err != nil {
		return err
	}
	r.entries = nil
	return nil
}

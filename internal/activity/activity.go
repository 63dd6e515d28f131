// Package activity keeps an append-only CSV trail of ledger mutations.
package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names a kind of ledger mutation.
type Action string

const (
	ActionInit   Action = "init"
	ActionCreate Action = "create"
	ActionPay    Action = "pay"
	ActionDelete Action = "delete"
	ActionImport Action = "import"
)

// Entry is one row of the activity log.
type Entry struct {
	Timestamp  time.Time
	Action     Action
	Details    string
	DebtID     string
	CommitHash string
}

// Header is the first line of activity-log.csv.
const Header = "timestamp,action,details,debt_id,commit_hash"

// RelPath is the log location relative to the workspace root.
const RelPath = "logs/activity-log.csv"

const (
	numFields     = 5
	colTimestamp  = 0
	colAction     = 1
	colDetails    = 2
	colDebtID     = 3
	colCommitHash = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colDetails] = e.Details
	row[colDebtID] = e.DebtID
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	return Entry{
		Timestamp:  ts,
		Action:     Action(record[colAction]),
		Details:    record[colDetails],
		DebtID:     record[colDebtID],
		CommitHash: record[colCommitHash],
	}, nil
}

// Log is the activity log of one workspace.
type Log struct {
	path string
}

// Open returns the log for the workspace at root. The file is created on
// first append.
func Open(root string) *Log {
	return &Log{path: filepath.Join(root, filepath.FromSlash(RelPath))}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// Append writes entries at the end of the log, adding the header to a new file.
func (l *Log) Append(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	_, statErr := os.Stat(l.path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if fresh {
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
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing activity log: %w", err)
	}
	return nil
}

// Read returns every entry in the log, oldest first. A missing log is empty.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()
	return ReadEntries(f)
}

// Tail returns at most the last n entries.
func (l *Log) Tail(n int) ([]Entry, error) {
	entries, err := l.Read()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// ReadEntries parses an activity log stream, header included.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	var entries []Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading activity log: %w", err)
		}
		if line == 1 {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		entries = append(entries, e)
	}
}

// Package journal provides an append-only log of filesystem mutations made
// through crepbook. Every create, write, delete and rename attempt is written
// as one JSON line after the call returns, recording whether it succeeded.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Op names the kind of mutation an Entry records.
type Op string

// Journaled operations.
const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpDelete Op = "delete"
	OpMkdir  Op = "mkdir"
	OpRmdir  Op = "rmdir"
	OpRename Op = "rename"
)

// Entry represents a single filesystem mutation logged to the journal.
type Entry struct {
	Timestamp time.Time `json:"ts" yaml:"ts"`
	Type      Op        `json:"type" yaml:"type"`
	Source    string    `json:"src" yaml:"src"`
	Dest      string    `json:"dst,omitempty" yaml:"dst,omitempty"` // rename target actually used
	Success   bool      `json:"ok" yaml:"ok"`
	Error     string    `json:"err,omitempty" yaml:"err,omitempty"`
}

// Writer appends journal entries to a JSONL file. Each Log call writes one
// JSON line and calls file.Sync() to ensure durability.
//
// Writer is safe for concurrent use.
type Writer struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewWriter creates a journal writer at the given path. The parent directory
// must already exist. The file is created if it does not exist, or appended to
// if it does.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &Writer{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Log writes an entry to the journal and syncs to disk.
func (w *Writer) Log(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := w.encoder.Encode(entry); err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}

	return nil
}

// Path returns the journal file path.
func (w *Writer) Path() string {
	return w.file.Name()
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

// Reader reads journal entries from a JSONL file.
type Reader struct {
	path string
}

// NewReader creates a journal reader for the given path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Entries reads all entries from the journal in order. A missing journal
// yields no entries.
func (r *Reader) Entries() ([]Entry, error) {
	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return entries, fmt.Errorf("decode journal line %d: %w", lineNum, err)
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read journal: %w", err)
	}

	return entries, nil
}

// Tail returns at most n of the most recent entries, newest first.
// n <= 0 returns every entry.
func (r *Reader) Tail(n int) ([]Entry, error) {
	entries, err := r.Entries()
	if err != nil {
		return nil, err
	}

	reverseEntries(entries)
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}

	return entries, nil
}

// Failures returns the entries whose mutation did not succeed, in order.
func (r *Reader) Failures() ([]Entry, error) {
	entries, err := r.Entries()
	if err != nil {
		return nil, err
	}

	failed := make([]Entry, 0)
	for i := range entries {
		if !entries[i].Success {
			failed = append(failed, entries[i])
		}
	}

	return failed, nil
}

func reverseEntries(entries []Entry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}

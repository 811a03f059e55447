package history

import (
	"fmt"
	"time"
)

// TimestampLayout renders log and settings timestamps as yyyy-MM-dd HH:mm:ss.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is one line of the chronological log.
type Entry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// String renders the entry as "<timestamp> - <text>".
func (e Entry) String() string {
	return fmt.Sprintf("%s - %s", e.At.Format(TimestampLayout), e.Text)
}

// Log is the unbounded chronological list of calculations.
type Log struct {
	entries []Entry
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Add appends an entry.
func (l *Log) Add(at time.Time, text string) {
	l.entries = append(l.entries, Entry{At: at, Text: text})
}

// Entries returns a copy of all entries, oldest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.entries = nil
}

// Lines renders the log for display, numbered from 1.
func (l *Log) Lines() []string {
	lines := make([]string, len(l.entries))
	for i, e := range l.entries {
		lines[i] = fmt.Sprintf("%d. %s", i+1, e)
	}
	return lines
}

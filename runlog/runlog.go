// Package runlog keeps the protocol of a run in a file next to the outputs.
//
// While a Log is open, everything written with the standard logger also ends up in the file.
// Record writes to the file only, for values that are needed to reproduce a run but clutter the screen.
package runlog

import (
	"io"
	"log"
	"os"
)

type Log struct {
	w      io.Writer
	record *log.Logger
	prev   io.Writer
}

// Open appends to the log file at path, earlier runs with the same base name are kept
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return Attach(f), nil
}

// Attach mirrors the standard logger to w until Close
func Attach(w io.Writer) *Log {
	prev := log.Writer()
	log.SetOutput(io.MultiWriter(prev, w))
	return &Log{
		w:      w,
		record: log.New(w, "", log.Flags()),
		prev:   prev,
	}
}

// Record writes a line to the log file only
func (l *Log) Record(format string, v ...any) {
	l.record.Printf(format, v...)
}

// Close restores the standard logger and closes the file
func (l *Log) Close() error {
	log.SetOutput(l.prev)
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

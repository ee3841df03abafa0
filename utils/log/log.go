// Package log provides a logging backend for the programs of the module,
// based around the go-logging package. Library packages do not log.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/op/go-logging.v1"
)

// Backend is a log backend.
type Backend struct {
	file    *os.File
	backend logging.LeveledBackend
}

// Close closes the log file opened by New, if any. Loggers obtained from
// the backend must not be used afterwards.
func (b *Backend) Close() (err error) {
	if b.file == nil {
		return nil
	}
	err = b.file.Close()
	b.file = nil
	return
}

// GetLogger returns a per-module logger that writes to the backend.
func (b *Backend) GetLogger(module string) *logging.Logger {
	l := logging.MustGetLogger(module)
	l.SetBackend(b.backend)
	return l
}

// New initializes a logging backend writing to the file f, or to stdout if f
// is empty. If disable is true, everything is discarded.
func New(f string, level string, disable bool) (*Backend, error) {

	lvl, err := logLevelFromString(level)
	if err != nil {
		return nil, err
	}

	switch {
	case disable:
		return NewWithWriter(io.Discard, lvl), nil
	case f == "":
		return NewWithWriter(os.Stdout, lvl), nil
	}

	const fileMode = 0600
	flags := os.O_CREATE | os.O_APPEND | os.O_WRONLY
	file, err := os.OpenFile(f, flags, fileMode)
	if err != nil {
		return nil, fmt.Errorf("log: failed to create log file: %w", err)
	}

	b := NewWithWriter(file, lvl)
	b.file = file
	return b, nil
}

// NewWithWriter initializes a logging backend writing to w at the given level.
func NewWithWriter(w io.Writer, lvl logging.Level) *Backend {
	logFmt := logging.MustStringFormatter("%{time:15:04:05.000} %{level:.4s} %{module}: %{message}")
	base := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(base, logFmt)

	b := &Backend{backend: logging.AddModuleLevel(formatted)}
	b.backend.SetLevel(lvl, "")
	return b
}

func logLevelFromString(l string) (logging.Level, error) {
	switch strings.ToUpper(l) {
	case "CRITICAL":
		return logging.CRITICAL, nil
	case "ERROR":
		return logging.ERROR, nil
	case "WARNING":
		return logging.WARNING, nil
	case "NOTICE":
		return logging.NOTICE, nil
	case "INFO":
		return logging.INFO, nil
	case "DEBUG":
		return logging.DEBUG, nil
	default:
		return logging.CRITICAL, fmt.Errorf("log: invalid level: '%v'", l)
	}
}

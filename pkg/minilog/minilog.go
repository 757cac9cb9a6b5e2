// Copyright 2015-2023 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package minilog extends Go's logging functionality to allow for multiple
// loggers, each with its own level and optional color output. Call
// AddLogger to register a destination, then use the package-level
// functions (Debug, Info, Warn, Error, Fatal) to fan a message out to every
// registered logger that is enabled for that level.
//
// minilog intentionally does not parse flags or open files itself: wiring a
// logger up to a CLI's -level/-logfile flags is the embedder's job.
package minilog

import (
	"errors"
	"fmt"
	golog "log"
	"io"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	_ Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

// ParseLevel returns the log level named by s.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	}
	return -1, errors.New("invalid log level")
}

func (l *Level) Set(s string) (err error) {
	*l, err = ParseLevel(s)
	return
}

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	case FATAL:
		return "fatal"
	}
	return fmt.Sprintf("Level(%d)", l)
}

const (
	colorLine  = "\x1b[33m"
	colorDebug = "\x1b[34m"
	colorInfo  = "\x1b[32m"
	colorWarn  = "\x1b[33m"
	colorError = "\x1b[31m"
	colorFatal = "\x1b[31m"
	Reset      = "\x1b[0m"
)

type logger interface {
	Println(...interface{})
}

type minilogger struct {
	logger

	Level   Level
	Color   bool
	filters []string
}

func (l *minilogger) prologue(level Level, name string) (msg string) {
	switch level {
	case DEBUG:
		msg += "DEBUG "
	case INFO:
		msg += "INFO "
	case WARN:
		msg += "WARN "
	case ERROR:
		msg += "ERROR "
	default:
		msg += "FATAL "
	}

	if name != "" {
		msg += name + ": "
	}

	if l.Color {
		msg = colorLine + msg
		switch level {
		case DEBUG:
			msg += colorDebug
		case INFO:
			msg += colorInfo
		case WARN:
			msg += colorWarn
		case ERROR:
			msg += colorError
		default:
			msg += colorFatal
		}
	}
	return
}

func (l *minilogger) epilogue() string {
	if l.Color {
		return Reset
	}
	return ""
}

func (l *minilogger) log(level Level, name, format string, arg ...interface{}) {
	msg := l.prologue(level, name) + fmt.Sprintf(format, arg...) + l.epilogue()
	for _, f := range l.filters {
		if strings.Contains(msg, f) {
			return
		}
	}
	l.Println(msg)
}

var (
	loggers = make(map[string]*minilogger)
	logLock sync.RWMutex
)

// AddLogger registers a named logger writing to output, enabled for level
// and above. Calling AddLogger again with the same name replaces it.
func AddLogger(name string, output io.Writer, level Level, color bool) {
	logLock.Lock()
	defer logLock.Unlock()

	loggers[name] = &minilogger{golog.New(output, "", golog.LstdFlags), level, color, nil}
}

// DelLogger removes a logger previously registered with AddLogger.
func DelLogger(name string) {
	logLock.Lock()
	defer logLock.Unlock()

	delete(loggers, name)
}

func Loggers() []string {
	logLock.RLock()
	defer logLock.RUnlock()

	var ret []string
	for k := range loggers {
		ret = append(ret, k)
	}
	return ret
}

// WillLog reports whether logging at level would reach any registered
// logger. Useful for skipping expensive message construction.
func WillLog(level Level) bool {
	logLock.RLock()
	defer logLock.RUnlock()

	for _, v := range loggers {
		if v.Level <= level {
			return true
		}
	}
	return false
}

func SetLevel(name string, level Level) error {
	logLock.Lock()
	defer logLock.Unlock()

	if loggers[name] == nil {
		return errors.New("logger does not exist")
	}
	loggers[name].Level = level
	return nil
}

func AddFilter(name string, filter string) error {
	logLock.Lock()
	defer logLock.Unlock()

	l, ok := loggers[name]
	if !ok {
		return fmt.Errorf("no such logger %v", name)
	}
	for _, f := range l.filters {
		if f == filter {
			return nil
		}
	}
	l.filters = append(l.filters, filter)
	return nil
}

func dispatch(level Level, name, format string, arg ...interface{}) {
	logLock.RLock()
	defer logLock.RUnlock()

	for _, l := range loggers {
		if l.Level <= level {
			l.log(level, name, format, arg...)
		}
	}
}

func Debug(format string, arg ...interface{}) { dispatch(DEBUG, "", format, arg...) }
func Info(format string, arg ...interface{})  { dispatch(INFO, "", format, arg...) }
func Warn(format string, arg ...interface{})  { dispatch(WARN, "", format, arg...) }
func Error(format string, arg ...interface{}) { dispatch(ERROR, "", format, arg...) }

func Fatal(format string, arg ...interface{}) {
	dispatch(FATAL, "", format, arg...)
	os.Exit(1)
}

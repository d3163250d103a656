/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger provides a small structured, leveled logger backed by
// logrus, with no syslog/file/hclog/gorm sinks, since this service only
// ever writes to a single stream (stdout by default).
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	loglvl "github.com/sabouaram/pkgindexd/logger/level"
)

// Fields carries structured key/value context attached to a single log
// entry (session id, remote address, command verb, ...).
type Fields map[string]interface{}

// Logger is the logging surface the rest of the service depends on.
type Logger interface {
	SetLevel(lvl loglvl.Level)
	GetLevel() loglvl.Level

	Debug(message string, fields Fields)
	Info(message string, fields Fields)
	Warning(message string, fields Fields)
	Error(message string, fields Fields)
	Fatal(message string, fields Fields)

	// WithFields returns a derived Logger that always includes the given
	// fields, without mutating the receiver.
	WithFields(fields Fields) Logger
}

type lgr struct {
	mu  sync.RWMutex
	log *logrus.Logger
	ent *logrus.Entry
}

// New returns a Logger writing to out (os.Stdout if nil) at InfoLevel,
// in JSON form.
func New(out io.Writer) Logger {
	if out == nil {
		out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(loglvl.InfoLevel.Logrus())

	return &lgr{log: l, ent: logrus.NewEntry(l)}
}

func (o *lgr) SetLevel(lvl loglvl.Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.log.SetLevel(lvl.Logrus())
}

func (o *lgr) GetLevel() loglvl.Level {
	o.mu.RLock()
	defer o.mu.RUnlock()

	switch o.log.GetLevel() {
	case logrus.FatalLevel:
		return loglvl.FatalLevel
	case logrus.ErrorLevel:
		return loglvl.ErrorLevel
	case logrus.WarnLevel:
		return loglvl.WarnLevel
	case logrus.DebugLevel:
		return loglvl.DebugLevel
	default:
		return loglvl.InfoLevel
	}
}

func (o *lgr) WithFields(fields Fields) Logger {
	return &lgr{log: o.log, ent: o.ent.WithFields(logrus.Fields(fields))}
}

func (o *lgr) Debug(message string, fields Fields)   { o.log2(loglvl.DebugLevel, message, fields) }
func (o *lgr) Info(message string, fields Fields)    { o.log2(loglvl.InfoLevel, message, fields) }
func (o *lgr) Warning(message string, fields Fields) { o.log2(loglvl.WarnLevel, message, fields) }
func (o *lgr) Error(message string, fields Fields)   { o.log2(loglvl.ErrorLevel, message, fields) }
func (o *lgr) Fatal(message string, fields Fields) {
	o.log2(loglvl.FatalLevel, message, fields)
	o.log.Exit(1)
}

func (o *lgr) log2(lvl loglvl.Level, message string, fields Fields) {
	e := o.ent
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	e.Log(lvl.Logrus(), message)
}

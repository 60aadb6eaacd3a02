package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formatter writes one line per entry: date, time, source, level, message
// and then the entry fields in key order.
type Formatter struct {
	SystemName string
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	t := entry.Time.UTC()
	fmt.Fprintf(b, "Date: %s, Time: %s, ", t.Format("2006-01-02"), t.Format("15:04:05"))
	fmt.Fprintf(b, "Event Source: %s, ", f.SystemName)
	fmt.Fprintf(b, "Event Type: %s, ", strings.ToUpper(entry.Level.String()))
	fmt.Fprintf(b, "Message: %s", entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, ", %s=%v", k, entry.Data[k])
	}

	if entry.HasCaller() {
		fmt.Fprintf(b, ", Location: %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// Options configures New.
type Options struct {
	SystemName string
	// File enables rotated file output. Empty means Fallback.
	File  string
	Level string
	// Fallback receives logs when File is empty. Defaults to stderr.
	Fallback     io.Writer
	ReportCaller bool
}

// New builds a logger. The returned closer flushes and closes the rotated
// file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	name := opts.SystemName
	if name == "" {
		name = "gantt"
	}

	logger := logrus.New()
	logger.SetFormatter(&Formatter{SystemName: name})
	logger.SetLevel(level)
	logger.SetReportCaller(opts.ReportCaller)

	var closer io.Closer = nopCloser{}
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		logger.SetOutput(file)
		closer = file
	case opts.Fallback != nil:
		logger.SetOutput(opts.Fallback)
	default:
		logger.SetOutput(os.Stderr)
	}

	logger.WithField("level", level.String()).Debug("logger initialized")
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

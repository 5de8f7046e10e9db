package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"log/syslog"
	"os"
	"strings"
	"sync"

	"github.com/veesix-networks/setman/pkg/config/system"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

const syslogTag = "setman"

type Options struct {
	Format      string
	Level       LogLevel
	Destination string
	// Mode tags every record.
	Mode string
	// Quiet raises the level to at least warn.
	Quiet bool
	// Writer replaces standard error for the stderr destination.
	Writer io.Writer
}

// New builds the process logger. The returned closer releases the system
// log connection, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := parseLevel(string(opts.Level))
	if opts.Quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	stderr := opts.Writer
	if stderr == nil {
		stderr = os.Stderr
	}

	var (
		sink   sink
		closer io.Closer = nopCloser{}
	)
	switch opts.Destination {
	case system.LogDestinationStderr:
		sink = &streamSink{w: stderr}
	case system.LogDestinationSyslog, system.LogDestinationAuto, "":
		w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, syslogTag)
		switch {
		case err == nil:
			sink = &syslogSink{w: w}
			closer = w
		case opts.Destination == system.LogDestinationSyslog:
			return nil, nil, fmt.Errorf("connect to system log: %w", err)
		default:
			sink = &streamSink{w: stderr}
		}
	default:
		return nil, nil, fmt.Errorf("unknown log destination %q", opts.Destination)
	}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = &ModeJSONHandler{
			inner: slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level}),
			mode:  opts.Mode,
		}
	} else {
		handler = NewModeTextHandler(sink, &slog.HandlerOptions{Level: level}, opts.Mode)
	}
	return slog.New(handler), closer, nil
}

// sink receives one formatted record per call.
type sink interface {
	io.Writer
	writeLevel(level slog.Level, line []byte) error
	stamped() bool
}

type streamSink struct {
	w io.Writer
}

func (s *streamSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *streamSink) writeLevel(_ slog.Level, line []byte) error {
	_, err := s.w.Write(line)
	return err
}

func (s *streamSink) stamped() bool { return true }

// syslogSink maps record levels to syslog priorities. The system log adds
// its own timestamp and pid.
type syslogSink struct {
	w *syslog.Writer
}

func (s *syslogSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *syslogSink) writeLevel(level slog.Level, line []byte) error {
	msg := strings.TrimSuffix(string(line), "\n")
	switch {
	case level >= slog.LevelError:
		return s.w.Err(msg)
	case level >= slog.LevelWarn:
		return s.w.Warning(msg)
	case level >= slog.LevelInfo:
		return s.w.Info(msg)
	}
	return s.w.Debug(msg)
}

func (s *syslogSink) stamped() bool { return false }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ModeTextHandler writes "time [pid] [mode] message key=value..." lines.
type ModeTextHandler struct {
	opts  *slog.HandlerOptions
	mu    *sync.Mutex
	sink  sink
	attrs []slog.Attr
	group string
	mode  string
	pid   int
}

func NewModeTextHandler(w io.Writer, opts *slog.HandlerOptions, mode string) *ModeTextHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	s, ok := w.(sink)
	if !ok {
		s = &streamSink{w: w}
	}
	return &ModeTextHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		sink: s,
		mode: mode,
		pid:  os.Getpid(),
	}
}

func (h *ModeTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

func (h *ModeTextHandler) Handle(ctx context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	if h.sink.stamped() {
		buf = append(buf, r.Time.Format("2006/01/02 15:04:05.000")...)
		buf = append(buf, fmt.Sprintf(" [%d] ", h.pid)...)
	}
	if h.mode != "" {
		buf = append(buf, fmt.Sprintf("[%s] ", h.mode)...)
	}
	if r.Level != slog.LevelInfo {
		buf = append(buf, r.Level.String()...)
		buf = append(buf, ' ')
	}
	buf = append(buf, r.Message...)

	for _, a := range h.attrs {
		buf = appendAttr(buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.group, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sink.writeLevel(r.Level, buf)
}

func appendAttr(buf []byte, group string, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindAny && v.Any() == nil {
		return buf
	}
	return append(buf, fmt.Sprintf(" %s=%v", key, v.Any())...)
}

func (h *ModeTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

func (h *ModeTextHandler) WithGroup(name string) slog.Handler {
	nh := *h
	if nh.group != "" {
		nh.group = nh.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

// ModeJSONHandler adds a mode attribute to every record.
type ModeJSONHandler struct {
	inner slog.Handler
	mode  string
}

func (h *ModeJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ModeJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.mode != "" {
		r = r.Clone()
		r.AddAttrs(slog.String("mode", h.mode))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ModeJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ModeJSONHandler{inner: h.inner.WithAttrs(attrs), mode: h.mode}
}

func (h *ModeJSONHandler) WithGroup(name string) slog.Handler {
	return &ModeJSONHandler{inner: h.inner.WithGroup(name), mode: h.mode}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

const consoleTimeLayout = "2006/01/02 15:04:05"

// NewConsoleHandler returns a handler for reading logs in a terminal. Every
// record becomes one line:
//
//	[time] LEVEL [command] #job path: message key=value...
//
// The command, job and path attributes are pulled out of the key=value tail
// when they are set at the top level.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions, logTime bool,
) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	self := &ConsoleHandler{
		logTime: logTime,
		w:       w,
		b:       new(bytes.Buffer),
		mu:      new(sync.Mutex),
		opts:    *opts,
	}

	textOpts := self.opts
	textOpts.ReplaceAttr = self.replace
	self.h = slog.NewTextHandler(self.b, &textOpts)
	return self
}

type ConsoleHandler struct {
	logTime bool
	w       io.Writer
	b       *bytes.Buffer
	mu      *sync.Mutex

	h       slog.Handler
	opts    slog.HandlerOptions
	lead    consoleLead
	grouped bool
}

var _ slog.Handler = (*ConsoleHandler)(nil)

type consoleLead struct {
	command string
	job     int64
	path    string
}

// take stores a into the lead if it's one of the lead attributes.
func (self *consoleLead) take(a slog.Attr) bool {
	v := a.Value.Resolve()
	switch a.Key {
	case "command":
		self.command = v.String()
	case "path":
		self.path = v.String()
	case "job":
		if v.Kind() != slog.KindInt64 {
			return false
		}
		self.job = v.Int64()
	default:
		return false
	}
	return true
}

func (self *consoleLead) writeTo(b *bytes.Buffer) {
	if self.command != "" {
		b.WriteString(" [")
		b.WriteString(self.command)
		b.WriteByte(']')
	}
	if self.job > 0 {
		b.WriteString(" #")
		b.WriteString(strconv.FormatInt(self.job, 10))
	}
	if self.path != "" {
		b.WriteByte(' ')
		b.WriteString(self.path)
		b.WriteByte(':')
	}
}

func (self *ConsoleHandler) replace(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey, slog.LevelKey, slog.MessageKey:
			return slog.Attr{}
		}
	}
	if self.opts.ReplaceAttr != nil {
		return self.opts.ReplaceAttr(groups, a)
	}
	return a
}

func (self *ConsoleHandler) Enabled(ctx context.Context, level slog.Level,
) bool {
	return self.h.Enabled(ctx, level)
}

func (self *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	lead := self.lead
	tail := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		if self.grouped || !lead.take(a) {
			tail.AddAttrs(a)
		}
		return true
	})

	self.mu.Lock()
	defer self.mu.Unlock()
	defer self.b.Reset()

	if err := self.h.Handle(ctx, tail); err != nil {
		return fmt.Errorf("logger: failed slog handler: %w", err)
	}
	attrs := bytes.TrimSpace(self.b.Bytes())

	line := make([]byte, 0, len(attrs)+len(r.Message)+64)
	buf := bytes.NewBuffer(line)
	if self.logTime && !r.Time.IsZero() {
		buf.WriteString(r.Time.Format(consoleTimeLayout))
		buf.WriteByte(' ')
	}
	buf.WriteString(r.Level.String())
	lead.writeTo(buf)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	if len(attrs) > 0 {
		buf.WriteByte(' ')
		buf.Write(attrs)
	}
	buf.WriteByte('\n')

	if _, err := buf.WriteTo(self.w); err != nil {
		return fmt.Errorf("logger: failed write formatted entry: %w", err)
	}
	return nil
}

func (self *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h := *self
	rest := attrs
	if !self.grouped {
		rest = make([]slog.Attr, 0, len(attrs))
		for _, a := range attrs {
			if !h.lead.take(a) {
				rest = append(rest, a)
			}
		}
	}
	if len(rest) > 0 {
		h.h = self.h.WithAttrs(rest)
	}
	return &h
}

func (self *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return self
	}
	h := *self
	h.h = self.h.WithGroup(name)
	h.grouped = true
	return &h
}

// Package redact filters personally identifiable information out of
// structured key=value log lines. It is an independent utility: it shares no
// state with the auth core and can wrap any Logger.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Defaults used by New when not overridden.
const (
	DefaultRedaction = "***"
	DefaultSeparator = ";"
)

// PIIFields are the field names redacted by default.
var PIIFields = []string{"name", "email", "phone", "ssn", "password"}

// FilterDatum returns message with the value of every listed field replaced
// by redaction. Fields are key=value pairs terminated by separator.
func FilterDatum(fields []string, redaction, message, separator string) string {
	for _, field := range fields {
		re := regexp.MustCompile(regexp.QuoteMeta(field) + `=(.*?)` + regexp.QuoteMeta(separator))
		message = re.ReplaceAllString(message, field+"="+redaction+separator)
	}
	return message
}

// Redactor applies a fixed field list to messages.
type Redactor struct {
	fields    []string
	redaction string
	separator string
}

// Option mutates a Redactor under construction.
type Option func(*Redactor)

// WithRedaction overrides the replacement string.
func WithRedaction(redaction string) Option {
	return func(r *Redactor) {
		r.redaction = redaction
	}
}

// WithSeparator overrides the key=value pair terminator.
func WithSeparator(separator string) Option {
	return func(r *Redactor) {
		r.separator = separator
	}
}

// New builds a Redactor for the given fields; with no fields it falls back
// to PIIFields.
func New(fields []string, opts ...Option) *Redactor {
	if len(fields) == 0 {
		fields = append([]string{}, PIIFields...)
	}

	r := &Redactor{
		fields:    fields,
		redaction: DefaultRedaction,
		separator: DefaultSeparator,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Filter redacts the configured fields in message.
func (r *Redactor) Filter(message string) string {
	return FilterDatum(r.fields, r.redaction, message, r.separator)
}

// Logger is the log surface the decorator wraps; it matches the root
// package's Logger interface.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// RedactingLogger renders each entry as a message plus key=value pairs and
// filters it before delegating. Arguments are treated as alternating
// key/value pairs, never as printf operands.
type RedactingLogger struct {
	inner    Logger
	redactor *Redactor
}

// WrapLogger decorates a Logger so its output is redacted.
func WrapLogger(inner Logger, redactor *Redactor) *RedactingLogger {
	if redactor == nil {
		redactor = New(nil)
	}
	return &RedactingLogger{inner: inner, redactor: redactor}
}

func (l *RedactingLogger) Debug(msg string, args ...any) {
	l.inner.Debug("%s", l.render(msg, args))
}

func (l *RedactingLogger) Info(msg string, args ...any) {
	l.inner.Info("%s", l.render(msg, args))
}

func (l *RedactingLogger) Warn(msg string, args ...any) {
	l.inner.Warn("%s", l.render(msg, args))
}

func (l *RedactingLogger) Error(msg string, args ...any) {
	l.inner.Error("%s", l.render(msg, args))
}

func (l *RedactingLogger) render(msg string, args []any) string {
	if len(args) > 0 {
		// render pairs as key=value; so filtering applies to them too
		var b strings.Builder
		b.WriteString(msg)
		for i := 0; i+1 < len(args); i += 2 {
			fmt.Fprintf(&b, " %v=%v%s", args[i], args[i+1], l.redactor.separator)
		}
		if len(args)%2 == 1 {
			fmt.Fprintf(&b, " %v", args[len(args)-1])
		}
		msg = b.String()
	}
	return l.redactor.Filter(msg)
}

package redact_test

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-session-auth/redact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterDatum(t *testing.T) {
	fields := []string{"password", "date_of_birth"}
	message := "name=egg;email=eggmin@eggsample.com;password=eggcellent;date_of_birth=12/12/1986;"

	got := redact.FilterDatum(fields, "xxx", message, ";")
	assert.Equal(t, "name=egg;email=eggmin@eggsample.com;password=xxx;date_of_birth=xxx;", got)
}

func TestFilterDatumLeavesUnlistedFields(t *testing.T) {
	got := redact.FilterDatum([]string{"ssn"}, "***", "user=abc;ssn=123-45-6789;ip=10.0.0.1;", ";")
	assert.Equal(t, "user=abc;ssn=***;ip=10.0.0.1;", got)
}

func TestFilterDatumRegexMetacharacters(t *testing.T) {
	// a field name carrying regex metacharacters must be treated literally
	got := redact.FilterDatum([]string{"a.b"}, "***", "a.b=secret;axb=public;", ";")
	assert.Equal(t, "a.b=***;axb=public;", got)
}

func TestRedactorDefaults(t *testing.T) {
	r := redact.New(nil)

	message := "name=bob;email=bob@x.com;phone=0123456789;ssn=000-12-0000;password=hunter2;ip=10.0.0.1;"
	got := r.Filter(message)

	assert.Equal(t, "name=***;email=***;phone=***;ssn=***;password=***;ip=10.0.0.1;", got)
}

func TestRedactorOptions(t *testing.T) {
	r := redact.New([]string{"email"},
		redact.WithRedaction("<hidden>"),
		redact.WithSeparator("&"),
	)

	got := r.Filter("email=bob@x.com&role=admin&")
	assert.Equal(t, "email=<hidden>&role=admin&", got)
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) log(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(format string, args ...any) { l.log(format, args...) }
func (l *recordingLogger) Info(format string, args ...any)  { l.log(format, args...) }
func (l *recordingLogger) Warn(format string, args ...any)  { l.log(format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.log(format, args...) }

func TestRedactingLogger(t *testing.T) {
	inner := &recordingLogger{}
	logger := redact.WrapLogger(inner, nil)

	logger.Info("login attempt", "email", "bob@x.com", "result", "failure")

	require.Len(t, inner.lines, 1)
	assert.Contains(t, inner.lines[0], "email=***;")
	assert.Contains(t, inner.lines[0], "result=failure")
	assert.NotContains(t, inner.lines[0], "bob@x.com")
}

func TestRedactingLoggerBareMessage(t *testing.T) {
	inner := &recordingLogger{}
	logger := redact.WrapLogger(inner, redact.New([]string{"password"}))

	logger.Error("reset failed for password=hunter2;")

	require.Len(t, inner.lines, 1)
	assert.Equal(t, "reset failed for password=***;", inner.lines[0])
}

func TestRedactingLoggerOddTrailingArg(t *testing.T) {
	inner := &recordingLogger{}
	logger := redact.WrapLogger(inner, redact.New([]string{"email"}))

	logger.Warn("lookup failed", "email", "bob@x.com", "dangling")

	require.Len(t, inner.lines, 1)
	assert.Contains(t, inner.lines[0], "email=***;")
	assert.Contains(t, inner.lines[0], "dangling")
	assert.NotContains(t, inner.lines[0], "bob@x.com")
}

// Package diag carries notes and warnings produced while generating or
// packaging libman trees back to the caller.
package diag

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Severity ranks a diagnostic.
type Severity int

const (
	Info Severity = iota
	Warn
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warn"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic is a single structured note about a subject such as
// "<package>/<library>".
type Diagnostic struct {
	Severity Severity
	Subject  string
	Message  string
}

func (d Diagnostic) String() string {
	if d.Subject == "" {
		return d.Message
	}
	return d.Subject + ": " + d.Message
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// Infof reports an Info diagnostic to s. A nil s discards it.
func Infof(s Sink, subject, format string, args ...any) {
	if s != nil {
		s.Report(Diagnostic{Severity: Info, Subject: subject, Message: fmt.Sprintf(format, args...)})
	}
}

// Warnf reports a Warn diagnostic to s. A nil s discards it.
func Warnf(s Sink, subject, format string, args ...any) {
	if s != nil {
		s.Report(Diagnostic{Severity: Warn, Subject: subject, Message: fmt.Sprintf(format, args...)})
	}
}

// -----------------------------------------------------------------------------

// Collector keeps every reported diagnostic in order.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Filter returns the collected diagnostics of the given severity.
func (c *Collector) Filter(sev Severity) []Diagnostic {
	var ret []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == sev {
			ret = append(ret, d)
		}
	}
	return ret
}

// -----------------------------------------------------------------------------

// LogSink renders diagnostics through a charmbracelet logger.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Report(d Diagnostic) {
	switch d.Severity {
	case Warn:
		s.Logger.Warn(d.Message, "subject", d.Subject)
	default:
		s.Logger.Info(d.Message, "subject", d.Subject)
	}
}

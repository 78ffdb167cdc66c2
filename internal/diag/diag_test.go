package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCollector(t *testing.T) {
	var c Collector
	Infof(&c, "zlib/z", "found %s", "libz.a")
	Warnf(&c, "zlib/m", "unresolved")
	Infof(nil, "ignored", "nothing")

	if len(c.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(c.Diagnostics))
	}
	if got := c.Diagnostics[0].String(); got != "zlib/z: found libz.a" {
		t.Errorf("String() = %q", got)
	}
	warns := c.Filter(Warn)
	if len(warns) != 1 || warns[0].Subject != "zlib/m" {
		t.Errorf("Filter(Warn) = %v", warns)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Prefix: "libman"})
	sink := LogSink{Logger: logger}

	sink.Report(Diagnostic{Severity: Warn, Subject: "a/b", Message: "unresolved library"})
	out := buf.String()
	if !strings.Contains(out, "unresolved library") || !strings.Contains(out, "a/b") {
		t.Errorf("log output = %q", out)
	}
}

func TestSeverityString(t *testing.T) {
	if Info.String() != "info" || Warn.String() != "warn" {
		t.Errorf("unexpected severity names %q %q", Info, Warn)
	}
}

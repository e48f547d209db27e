package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
		{"info", logrus.InfoLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")

	l.WithField("slot", "start").WithError(errors.New("boom")).Warn("digit mismatch")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "digit mismatch" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["slot"] != "start" {
		t.Errorf("slot: got %v", entry["slot"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error: got %v", entry["error"])
	}
	if entry["level"] != "warning" {
		t.Errorf("level: got %v", entry["level"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("info/debug should be filtered at warn level, got %s", buf.String())
	}

	l.Error("shown")
	if buf.Len() == 0 {
		t.Error("error should pass the warn level")
	}
}

func TestSetLevel(t *testing.T) {
	prev := Logger.GetLevel()
	defer Logger.SetLevel(prev)

	SetLevel("debug")
	if Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("got %v, want debug", Logger.GetLevel())
	}
}

func TestPackageHelpers(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevLevel := Logger.Out, Logger.GetLevel()
	Logger.SetOutput(&buf)
	defer func() {
		Logger.SetOutput(prevOut)
		Logger.SetLevel(prevLevel)
	}()
	SetLevel("info")

	WithField("component", "test").Info("one")
	WithFields(logrus.Fields{"slot": 2}).WithError(errors.New("bad")).Warn("two")

	dec := json.NewDecoder(&buf)
	var first, second map[string]interface{}
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("second entry: %v", err)
	}
	if first["component"] != "test" || first["msg"] != "one" {
		t.Errorf("first entry: %v", first)
	}
	if second["slot"] != float64(2) || second["error"] != "bad" {
		t.Errorf("second entry: %v", second)
	}
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")
	if l.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %v", l.GetLevel())
	}

	l.Info("hidden")
	l.WithFields(Fields{"row": 3}).Warn("skipping")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "skipping" || entry["row"] != float64(3) {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	if l := New(&bytes.Buffer{}, "chatty"); l.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %v", l.GetLevel())
	}
}

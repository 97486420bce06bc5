package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew_DevLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New("dev", &buf)
	l.Debug("container.added", "substance", "water")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "container.added" || rec["substance"] != "water" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNew_ProdSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New("prod", &buf)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at info level, got %q", buf.String())
	}
}

func TestSet_NilResetsToDiscard(t *testing.T) {
	var buf bytes.Buffer
	Set(New("dev", &buf))
	L().Info("visible")
	if buf.Len() == 0 {
		t.Fatalf("expected output from installed logger")
	}

	Set(nil)
	buf.Reset()
	L().Info("invisible")
	if buf.Len() != 0 {
		t.Fatalf("expected discard logger after reset, got %q", buf.String())
	}
}

package debug

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	was := Enabled()
	SetEnabled(true)
	SetOutput(&buf)
	t.Cleanup(func() { SetEnabled(was) })
	return &buf
}

func TestLog(t *testing.T) {
	buf := capture(t)
	Log("rebuilt %d groups", 3)
	LogIf(false, "hidden")
	LogIf(true, "shown")
	out := buf.String()
	if !strings.Contains(out, "[TUNEBOOK] ") || !strings.Contains(out, "rebuilt 3 groups") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("LogIf: %q", out)
	}
}

func TestDisabledIsSilent(t *testing.T) {
	buf := capture(t)
	SetEnabled(false)
	Log("nothing")
	Dump("x", 1)
	LogEnterExit("op")()
	Assert(false, "ignored while disabled")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestLogEnterExitAndDump(t *testing.T) {
	buf := capture(t)
	LogEnterExit("rebuild")()
	Dump("count", 7)
	out := buf.String()
	for _, want := range []string{"-> rebuild", "<- rebuild", "count: int = 7"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestAssertPanics(t *testing.T) {
	capture(t)
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	Assert(false, "boom")
}

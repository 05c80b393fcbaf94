package channel

import (
	"strings"
	"testing"
)

func TestSplitText_FitsInOneChunk(t *testing.T) {
	t.Parallel()
	got := SplitText("short message", 100)
	if len(got) != 1 || got[0] != "short message" {
		t.Errorf("SplitText = %v, want single unchanged chunk", got)
	}
}

func TestSplitText_NoLimit(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 10000)
	got := SplitText(long, 0)
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 when maxLen <= 0", len(got))
	}
}

func TestSplitText_SplitsAtLineBoundaries(t *testing.T) {
	t.Parallel()
	text := "line one\nline two\nline three"
	got := SplitText(text, 12)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (%v)", len(got), got)
	}
	for i, chunk := range got {
		if len(chunk) > 12 {
			t.Errorf("chunk %d has %d bytes, exceeds limit", i, len(chunk))
		}
	}
	rejoined := strings.Join(got, "\n")
	if rejoined != text {
		t.Errorf("rejoined = %q, want %q", rejoined, text)
	}
}

func TestSplitText_ForceSplitsLongLine(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a", 25)
	got := SplitText(long, 10)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if strings.Join(got, "") != long {
		t.Error("force-split chunks do not reassemble to the original line")
	}
	for i, chunk := range got {
		if len(chunk) > 10 {
			t.Errorf("chunk %d exceeds limit", i)
		}
	}
}

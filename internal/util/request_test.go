package util

import (
	"strings"
	"testing"
)

func TestGenerateRequestID_FormatAndUniqueness(t *testing.T) {
	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	if id1 == id2 {
		t.Error("expected two generated IDs to differ")
	}

	parts := strings.Split(id1, "_")
	if len(parts) != 3 {
		t.Fatalf("expected 3 underscore-separated parts, got %d (%s)", len(parts), id1)
	}
	if len(parts[2]) != 4 {
		t.Errorf("expected 4-char hex suffix, got %q", parts[2])
	}
}

package util

import "testing"

func TestContentDigest(t *testing.T) {
	data := []byte("%PDF-1.3 report")
	got := ContentDigest(data)
	if got != ContentDigest(data) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if got == ContentDigest([]byte("other")) {
		t.Fatalf("different inputs produced the same digest")
	}
}

package fingerprint

import (
	"math"
	"strings"
	"testing"
)

func TestEncodeFixedWidth(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "00000000000"},
		{61, "0000000000z"},
		{62, "00000000010"},
	}
	for _, tt := range tests {
		if got := Encode(tt.in); got != tt.want {
			t.Errorf("Encode(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := Encode(math.MaxUint64); len(got) != Width {
		t.Errorf("Encode(max) has length %d, want %d", len(got), Width)
	}
}

func TestStringIsStableAndSafe(t *testing.T) {
	headers := []string{"stdio.h", "/usr/include/stdlib.h", "sys/types.h", ""}
	seen := make(map[string]string)

	for _, h := range headers {
		fp := String(h)
		if fp != String(h) {
			t.Errorf("fingerprint of %q is not stable", h)
		}
		if len(fp) != Width {
			t.Errorf("fingerprint of %q has length %d", h, len(fp))
		}
		if strings.ContainsAny(fp, "/\\.:") {
			t.Errorf("fingerprint %q is not filesystem safe", fp)
		}
		if other, ok := seen[fp]; ok {
			t.Errorf("unexpected collision between %q and %q", h, other)
		}
		seen[fp] = h
	}
}

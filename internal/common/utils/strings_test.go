package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateBytes(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{name: "上限以内", s: "Thor", n: 10, want: "Thor"},
		{name: "ASCIIはそのまま切る", s: "Petoo Hotel", n: 5, want: "Petoo"},
		// "ã" は2バイトなので途中で切らずに手前で止める
		{name: "マルチバイト文字の途中", s: "Não", n: 2, want: "N"},
		{name: "マルチバイト文字の直後", s: "Não", n: 3, want: "Nã"},
		{name: "先頭が3バイト文字", s: "予約", n: 2, want: ""},
		{name: "上限が0", s: "Suíte", n: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateBytes(tt.s, tt.n)
			if got != tt.want {
				t.Errorf("TruncateBytes(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("TruncateBytes(%q, %d) = %q is not valid UTF-8", tt.s, tt.n, got)
			}
		})
	}

	long := strings.Repeat("Suíte ", 100)
	for n := 0; n < 40; n++ {
		got := TruncateBytes(long, n)
		if len(got) > n || !utf8.ValidString(got) || !strings.HasPrefix(long, got) {
			t.Fatalf("TruncateBytes(long, %d) = %q", n, got)
		}
	}
}

package models

import "testing"

// TestResolveIcon verifies that icon resolution goes through the fixed
// lookup table and never passes unknown names through.
func TestResolveIcon(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Icon
	}{
		{name: "known icon", input: "book", want: IconBook},
		{name: "another known icon", input: "download", want: IconDownload},
		{name: "unknown icon", input: "rocket", want: IconDefault},
		{name: "empty string", input: "", want: IconDefault},
		{name: "case sensitive", input: "Book", want: IconDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveIcon(tt.input); got != tt.want {
				t.Errorf("ResolveIcon(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

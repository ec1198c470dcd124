package mode

import "testing"

func TestParseOption(t *testing.T) {
	tests := []struct {
		in      string
		want    Match
		wantErr bool
	}{
		{"", Any, false},
		{"all", All, false},
		{"partial", Any, false},
		{"fuzzy", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOption(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseOption(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOption(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOption(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFieldOption(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{"", TitleContent, false},
		{"auto", TitleContent, false},
		{"title", Title, false},
		{"body", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFieldOption(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFieldOption(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFieldOption(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFieldOption(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

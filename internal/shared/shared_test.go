package shared

import "testing"

func TestGenerateState(t *testing.T) {
	s1, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if len(s1) != 32 {
		t.Errorf("state length = %d, want 32", len(s1))
	}

	s2, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if s1 == s2 {
		t.Error("GenerateState() returned same value twice")
	}
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "under a minute", ms: 45000, want: "0:45"},
		{name: "minute boundary", ms: 60000, want: "1:00"},
		{name: "typical track", ms: 214000, want: "3:34"},
		{name: "over ten minutes", ms: 725000, want: "12:05"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.ms)
			if got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.ms, got, tt.want)
			}
		})
	}
}

func TestVisibilityString(t *testing.T) {
	if got := VisibilityString(true); got != "Public" {
		t.Errorf("VisibilityString(true) = %v", got)
	}
	if got := VisibilityString(false); got != "Private" {
		t.Errorf("VisibilityString(false) = %v", got)
	}
}

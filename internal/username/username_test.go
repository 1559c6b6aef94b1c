package username

import (
	"regexp"
	"testing"
)

func TestGenerate_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z]+_[a-z]+_\d{4}$`)

	for i := 0; i < 100; i++ {
		name, err := Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !pattern.MatchString(name) {
			t.Errorf("generated username %q does not match adjective_noun_digits", name)
		}
		// Every generated name must pass its own validation rules.
		if err := Validate(name); err != nil {
			t.Errorf("generated username %q failed validation: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "alice", false},
		{"with digits", "alice99", false},
		{"with underscore", "quiet_otter_4821", false},
		{"minimum length", "abc", false},
		{"mixed case", "AliceB", false},

		{"too short", "ab", true},
		{"empty", "", true},
		{"too long", "a_very_long_username_that_goes_past_thirty", true},
		{"spaces", "alice b", true},
		{"hyphen", "alice-b", true},
		{"unicode", "alicé", true},
		{"symbols", "alice!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("Validate(%q) = nil, want error", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}

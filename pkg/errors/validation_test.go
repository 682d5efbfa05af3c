package errors

import (
	"testing"
)

func TestValidateBotanicalName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"binomial", "Betula pendula", false},
		{"cultivar", "Acer palmatum 'Bloodgood'", false},
		{"hybrid", "Magnolia × soulangeana", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "Betula/pendula", true},
		{"backslash", "Betula\\pendula", true},
		{"null byte", "Betula\x00pendula", true},
		{"newline", "Betula\npendula", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBotanicalName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBotanicalName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateBotanicalName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Betula pendula", "betula_pendula"},
		{"Acer palmatum 'Bloodgood'", "acer_palmatum_bloodgood"},
		{"  Taxus baccata  ", "taxus_baccata"},
		{"Cornus sanguinea 'Midwinter Fire'", "cornus_sanguinea_midwinter_fire"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "symbols", false},
		{"nested", "out/packs/betula", false},
		{"absolute", "/tmp/symbols", false},

		{"empty", "", true},
		{"root", "/", true},
		{"control char", "out\x01dir", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputDir(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputDir(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

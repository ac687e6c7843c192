package validation

import "testing"

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "equals sign", input: "=SUM(A1:A2)", want: "'=SUM(A1:A2)"},
		{name: "plus sign", input: "+1234", want: "'+1234"},
		{name: "at sign", input: "@cmd", want: "'@cmd"},
		{name: "leading whitespace then formula", input: "  =1+1", want: "'  =1+1"},
		{name: "plain text", input: "Acme Traders", want: "Acme Traders"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeForFormulaInjection(tt.input); got != tt.want {
				t.Errorf("SanitizeForFormulaInjection(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripUnprintable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Acme Traders", want: "Acme Traders"},
		{name: "control characters removed", input: "Acme\x00\x07Traders", want: "AcmeTraders"},
		{name: "common whitespace kept", input: "a\tb\nc\rd", want: "a\tb\nc\rd"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripUnprintable(tt.input); got != tt.want {
				t.Errorf("StripUnprintable(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package common

import (
	"errors"
	"slices"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    OutputFormat
		wantErr bool
	}{
		{"compact", OutputFormatCompact, false},
		{"pretty", OutputFormatPretty, false},
		{"Pretty", OutputFormatCompact, true},
		{"", OutputFormatCompact, true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidOutputFormat) {
			t.Errorf("ParseOutputFormat(%q) error = %v, want ErrInvalidOutputFormat", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOutputFormat_Text(t *testing.T) {
	data, err := OutputFormatPretty.MarshalText()
	if err != nil || string(data) != "pretty" {
		t.Errorf("MarshalText() = %q, %v, want pretty", data, err)
	}

	var o OutputFormat
	if err := o.UnmarshalText([]byte("pretty")); err != nil || o != OutputFormatPretty {
		t.Errorf("UnmarshalText() = %v, %v, want pretty", o, err)
	}
	if err := o.UnmarshalText([]byte("ugly")); err == nil {
		t.Error("UnmarshalText() expected error for unknown name")
	}
	if OutputFormat(5).IsValid() {
		t.Error("OutputFormat(5) should not be valid")
	}
	if got := OutputFormat(5).String(); got != "OutputFormat(5)" {
		t.Errorf("String() = %q, want OutputFormat(5)", got)
	}
}

func TestOutputFormat_Ext(t *testing.T) {
	if got := OutputFormatCompact.Ext(); got != ".min.css" {
		t.Errorf("Ext() = %q, want .min.css", got)
	}
	if got := OutputFormatPretty.Ext(); got != ".css" {
		t.Errorf("Ext() = %q, want .css", got)
	}
}

func TestCompatibility(t *testing.T) {
	if !slices.Equal(CompatibilityNames(), []string{"all", "ie11", "ie10", "ie9", "ie8", "ie7"}) {
		t.Errorf("CompatibilityNames() = %v", CompatibilityNames())
	}

	var c Compatibility
	if err := c.UnmarshalText([]byte("ie8")); err != nil || c != CompatibilityIe8 {
		t.Errorf("UnmarshalText() = %v, %v, want ie8", c, err)
	}
	if _, err := ParseCompatibility("ie6"); !errors.Is(err, ErrInvalidCompatibility) {
		t.Errorf("ParseCompatibility(ie6) error = %v, want ErrInvalidCompatibility", err)
	}
	if Compatibility("netscape").IsValid() {
		t.Error("netscape should not be valid")
	}
}

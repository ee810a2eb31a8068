package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{name: "unset uses default", value: "", defaultValue: true, want: true},
		{name: "true", value: "true", defaultValue: false, want: true},
		{name: "yes", value: "yes", defaultValue: false, want: true},
		{name: "one", value: "1", defaultValue: false, want: true},
		{name: "mixed case", value: "TrUe", defaultValue: false, want: true},
		{name: "false", value: "false", defaultValue: true, want: false},
		{name: "off", value: "off", defaultValue: true, want: false},
		{name: "whitespace trimmed", value: "  on  ", defaultValue: false, want: true},
		{name: "invalid uses default", value: "maybe", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_BOOL", tt.value)
			}
			if got := ParseBoolEnv("TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue int
		want         int
	}{
		{name: "unset uses default", value: "", defaultValue: 7, want: 7},
		{name: "valid integer", value: "42", defaultValue: 0, want: 42},
		{name: "negative integer", value: "-3", defaultValue: 0, want: -3},
		{name: "whitespace trimmed", value: " 10 ", defaultValue: 0, want: 10},
		{name: "invalid uses default", value: "abc", defaultValue: 9, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_INT", tt.value)
			}
			if got := ParseIntEnv("TEST_INT", tt.defaultValue); got != tt.want {
				t.Errorf("ParseIntEnv(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue time.Duration
		want         time.Duration
	}{
		{name: "unset uses default", value: "", defaultValue: time.Minute, want: time.Minute},
		{name: "seconds", value: "30s", defaultValue: 0, want: 30 * time.Second},
		{name: "composite", value: "1m30s", defaultValue: 0, want: 90 * time.Second},
		{name: "invalid uses default", value: "soon", defaultValue: 5 * time.Second, want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_DURATION", tt.value)
			}
			if got := ParseDurationEnv("TEST_DURATION", tt.defaultValue); got != tt.want {
				t.Errorf("ParseDurationEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

package server

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Mona", "Mona", false},
		{"  Mona   Lisa  ", "Mona Lisa", false},
		{"O'Brien-Jr. 2", "O'Brien-Jr. 2", false},
		{"", "", true},
		{"   ", "", true},
		{strings.Repeat("a", 21), "", true},
		{"<script>", "", true},
		{"Monaé", "", true},
	}
	for _, tc := range cases {
		got, err := validateName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("validateName(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("validateName(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("validateName(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if got, err := validateEmail(""); err != nil || got != "" {
		t.Fatalf("empty email must be allowed, got %q %v", got, err)
	}
	if got, err := validateEmail(" mona@example.com "); err != nil || got != "mona@example.com" {
		t.Fatalf("expected trimmed email, got %q %v", got, err)
	}
	if _, err := validateEmail("not-an-email"); err == nil {
		t.Fatal("expected error for address without @")
	}
}

func TestValidateJoinCode(t *testing.T) {
	if got, err := validateJoinCode(" abc234 "); err != nil || got != "ABC234" {
		t.Fatalf("expected normalized code, got %q %v", got, err)
	}
	if _, err := validateJoinCode("ABC"); err == nil {
		t.Fatal("expected error for short code")
	}
	if _, err := validateJoinCode("ABC-12"); err == nil {
		t.Fatal("expected error for unsupported characters")
	}
}

package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewDentistValidation(t *testing.T) {
	d, err := NewDentist("  Dr. Alice Smith  ")
	if err != nil {
		t.Fatalf("NewDentist error: %v", err)
	}
	if d.FullName != "Dr. Alice Smith" {
		t.Fatalf("full name = %q, want trimmed", d.FullName)
	}

	if _, err := NewDentist("   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := NewDentist(strings.Repeat("x", 201)); err == nil {
		t.Fatalf("expected error for long name")
	}
}

func TestNewPatientValidation(t *testing.T) {
	p, err := NewPatient(" Jane Roe ", " jane.roe@example.com ")
	if err != nil {
		t.Fatalf("NewPatient error: %v", err)
	}
	if p.FullName != "Jane Roe" || p.Email != "jane.roe@example.com" {
		t.Fatalf("patient = %+v, want trimmed fields", p)
	}

	if _, err := NewPatient("", "jane@example.com"); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if _, err := NewPatient("Jane Roe", ""); err == nil {
		t.Fatalf("expected error for missing email")
	}
}

func TestNewServiceValidation(t *testing.T) {
	s, err := NewService("Cleaning", 30)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	if s.DurationMinutes != 30 {
		t.Fatalf("duration = %d, want 30", s.DurationMinutes)
	}

	cases := []struct {
		name     string
		svcName  string
		duration int
	}{
		{"blank name", "  ", 30},
		{"too short", "Checkup", 10},
		{"too long", "Surgery", 300},
		{"off grid", "Checkup", 20},
	}
	for _, tc := range cases {
		_, err := NewService(tc.svcName, tc.duration)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("%s: error type = %T, want *ValidationError", tc.name, err)
		}
	}
}

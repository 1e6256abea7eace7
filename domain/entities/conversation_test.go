package entities

import (
	"regexp"
	"testing"
	"time"
)

func TestNewLabelFormat(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 30, 42, 0, time.UTC)
	label := NewLabel(now)

	pattern := regexp.MustCompile(`^20240115_093042_[0-9a-f]{8}$`)
	if !pattern.MatchString(label.String()) {
		t.Errorf("Unexpected label format '%s'", label)
	}
}

func TestNewLabelCollisionResistance(t *testing.T) {
	now := time.Now()
	seen := make(map[Label]bool)

	// same second, many labels
	for i := 0; i < 100; i++ {
		label := NewLabel(now)
		if seen[label] {
			t.Fatalf("Label collision within one second: %s", label)
		}
		seen[label] = true
	}
}

func TestLabelWithSuffix(t *testing.T) {
	label := NewLabel(time.Now())
	derived := label.WithSuffix("_funfact")

	if derived.String() != label.String()+"_funfact" {
		t.Errorf("Expected suffix appended, got '%s'", derived)
	}
}

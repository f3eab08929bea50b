package rules

import (
	"strings"
	"testing"
)

func TestLoadRulesetOverlaysBase(t *testing.T) {
	doc := `
extends: v1
version: acme-2024
categories:
  positive: 0.4
  neutral: -0.4
taxonomy:
  urgency_markers: ["sev1", "page the on-call"]
`
	rs, err := LoadRuleset(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadRuleset() error = %v", err)
	}
	if rs.Version != "acme-2024" {
		t.Fatalf("expected overridden version, got %q", rs.Version)
	}
	if rs.Categories.Positive != 0.4 || rs.Categories.Neutral != -0.4 {
		t.Fatalf("expected overridden thresholds, got %+v", rs.Categories)
	}
	if rs.Categories.VeryPositive != 0.75 {
		t.Fatalf("expected inherited very_positive, got %v", rs.Categories.VeryPositive)
	}
	if rs.Window.Strategy != WindowHead {
		t.Fatalf("expected v1 window strategy, got %q", rs.Window.Strategy)
	}
	if len(rs.Taxonomy.UrgencyMarkers) != 2 {
		t.Fatalf("expected urgency markers replaced, got %v", rs.Taxonomy.UrgencyMarkers)
	}
	if len(rs.Taxonomy.ActionVerbs) == 0 {
		t.Fatalf("expected inherited action verbs")
	}

	p, err := NewPipeline(rs)
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	if !p.Classify("Please page the on-call and restore the queue.").Urgent {
		t.Fatalf("expected custom urgency marker to apply")
	}
}

func TestLoadRulesetRejectsUnknownBase(t *testing.T) {
	if _, err := LoadRuleset(strings.NewReader("extends: v9\n")); err == nil {
		t.Fatalf("expected unknown base error")
	}
}

func TestLoadRulesetRejectsUnorderedThresholds(t *testing.T) {
	doc := "categories:\n  positive: -0.9\n"
	if _, err := LoadRuleset(strings.NewReader(doc)); err == nil {
		t.Fatalf("expected threshold validation error")
	}
}

func TestLookupDefaultsToCanonical(t *testing.T) {
	rs, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if rs.Version != VersionV3 {
		t.Fatalf("expected %s, got %s", VersionV3, rs.Version)
	}
	if _, err := Lookup("v2"); err == nil {
		t.Fatalf("expected error for unknown version")
	}
}

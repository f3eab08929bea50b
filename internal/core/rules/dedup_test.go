package rules

import (
	"slices"
	"testing"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

func TestSimilarity(t *testing.T) {
	a := "Send the weekly status report"
	b := "send the weekly status reports"

	if got := Similarity(a, b); got <= 0.85 {
		t.Fatalf("expected near duplicates above threshold, got %v", got)
	}
	if Similarity(a, b) != Similarity(b, a) {
		t.Fatalf("similarity must be symmetric")
	}
	if got := Similarity(a, "Schedule a call with the vendor"); got > 0.85 {
		t.Fatalf("expected distinct tasks below threshold, got %v", got)
	}
	if got := Similarity("", ""); got != 1 {
		t.Fatalf("expected empty strings to be identical, got %v", got)
	}
}

func TestDeduplicateKeepsFirstSeen(t *testing.T) {
	in := []domain.StaffTask{
		{Text: "Send the weekly status report", Urgent: false},
		{Text: "Schedule a call with the vendor", Urgent: false},
		{Text: "Send the weekly status reports", Urgent: true},
	}

	got := Deduplicate(in, 0.85)
	want := []domain.StaffTask{in[0], in[1]}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected dedup result: %+v", got)
	}
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	in := []domain.StaffTask{
		{Text: "Provide the monthly uptime report"},
		{Text: "Provide the monthly uptime reports"},
		{Text: "Restore the backup within 4 hours", Urgent: true},
		{Text: "Restore the backups within 4 hours"},
		{Text: "Notify the account manager of outages"},
	}

	once := Deduplicate(in, 0.85)
	twice := Deduplicate(once, 0.85)
	if !slices.Equal(once, twice) {
		t.Fatalf("dedup not idempotent:\n once: %+v\ntwice: %+v", once, twice)
	}
	for i := range once {
		for j := i + 1; j < len(once); j++ {
			if r := Similarity(once[i].Text, once[j].Text); r > 0.85 {
				t.Fatalf("accepted pair %q / %q has ratio %v", once[i].Text, once[j].Text, r)
			}
		}
	}
}

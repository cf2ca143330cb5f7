package cv

import "testing"

func TestDecorativePercentIsDeterministicAndBounded(t *testing.T) {
	for i, skill := range SampleRecord().Skills {
		first := DecorativePercent(42, skill, i)
		if first < 70 || first > 99 {
			t.Fatalf("percent for %s out of range: %d", skill, first)
		}
		if again := DecorativePercent(42, skill, i); again != first {
			t.Fatalf("expected stable value for %s, got %d then %d", skill, first, again)
		}
	}
}

func TestInterestIcon(t *testing.T) {
	cases := map[string]string{
		"Photographie": "camera",
		"Voyages":      "plane",
		"YOGA":         "spa",
		"Randonnée":    "hiking",
		"Chess":        "heart",
	}
	for in, want := range cases {
		if got := InterestIcon(in); got != want {
			t.Fatalf("InterestIcon(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(NewRecord())
	if stats.FilledSections != 0 || stats.TotalSections != TrackedSections {
		t.Fatalf("unexpected stats for empty record: %+v", stats)
	}

	stats = ComputeStats(SampleRecord())
	if stats.FilledSections != TrackedSections {
		t.Fatalf("expected sample to fill all sections, got %d", stats.FilledSections)
	}
	if stats.WordCount == 0 || stats.SizeKB <= 0 {
		t.Fatalf("expected word count and size, got %+v", stats)
	}
}

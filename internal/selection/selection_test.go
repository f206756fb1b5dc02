package selection

import (
	"testing"
	"time"

	"ScreenerFetcher/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilterWindowZeroIsIdentity(t *testing.T) {
	t.Parallel()

	cands := []domain.Candidate{
		{URL: "a", Date: day(2010, time.January, 1)},
		{URL: "b", Date: day(2024, time.June, 1)},
	}

	got := FilterWindow(cands, 0, day(2026, time.August, 24))
	if len(got) != len(cands) {
		t.Fatalf("expected identity, got %d of %d", len(got), len(cands))
	}
	for i := range cands {
		if got[i].URL != cands[i].URL {
			t.Fatalf("order changed at %d: %s", i, got[i].URL)
		}
	}
}

func TestFilterWindowCutoff(t *testing.T) {
	t.Parallel()

	now := day(2026, time.August, 24)
	cands := []domain.Candidate{
		{URL: "recent", Date: day(2026, time.March, 1)},
		{URL: "old", Date: day(2024, time.March, 1)},
		// An annual report carries December 31, so the 2025 report stays
		// inside a one-year window even though the year mostly predates it.
		{URL: "annual-2025", Date: day(2025, time.December, 31)},
		{URL: "annual-2024", Date: day(2024, time.December, 31)},
	}

	got := FilterWindow(cands, 1, now)
	want := map[string]bool{"recent": true, "annual-2025": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d survivors, got %d", len(want), len(got))
	}
	for _, c := range got {
		if !want[c.URL] {
			t.Fatalf("unexpected survivor %s", c.URL)
		}
	}
}

func TestRankSortsAndDeduplicates(t *testing.T) {
	t.Parallel()

	cands := []domain.Candidate{
		{URL: "mid", Date: day(2023, time.June, 1), Label: "first"},
		{URL: "old", Date: day(2021, time.January, 1)},
		{URL: "mid", Date: day(2025, time.January, 1), Label: "second"},
		{URL: "new", Date: day(2024, time.December, 1)},
	}

	got := Rank(cands)
	if len(got) != 3 {
		t.Fatalf("expected 3 after dedup, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	for _, c := range got {
		if c.URL == "mid" && c.Label != "first" {
			t.Fatalf("first occurrence must win the dedup, got %s", c.Label)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	var cands []domain.Candidate
	for i := 0; i < 7; i++ {
		cands = append(cands, domain.Candidate{
			URL:  string(rune('a' + i)),
			Date: day(2024, time.January, 1+i),
		})
	}
	ranked := Rank(cands)

	got := Truncate(ranked, 4)
	if len(got) != 4 {
		t.Fatalf("expected 4, got %d", len(got))
	}
	// Truncation applies post-sort: survivors are the most recent.
	if got[0].Date != day(2024, time.January, 7) || got[3].Date != day(2024, time.January, 4) {
		t.Fatalf("unexpected truncation window: %v .. %v", got[0].Date, got[3].Date)
	}

	if n := len(Truncate(ranked, 0)); n != 7 {
		t.Fatalf("zero limit must keep everything, got %d", n)
	}
}

func TestBucketConcalls(t *testing.T) {
	t.Parallel()

	cands := []domain.Candidate{
		{Type: domain.DocTranscript, URL: "https://x/t-aug.pdf", Date: day(2023, time.August, 1), PeriodKey: "2023-08"},
		{Type: domain.DocPresentation, URL: "https://x/p-aug.pdf", Date: day(2023, time.August, 1), PeriodKey: "2023-08"},
		{Type: domain.DocTranscript, URL: "https://x/t-aug-dup.pdf", Date: day(2023, time.August, 1), PeriodKey: "2023-08"},
		{Type: domain.DocTranscript, URL: "https://x/t-may.pdf", Date: day(2023, time.May, 1), PeriodKey: "2023-05"},
	}

	buckets := BucketConcalls(cands)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Key != "2023-08" || buckets[1].Key != "2023-05" {
		t.Fatalf("buckets not sorted most recent first: %s, %s", buckets[0].Key, buckets[1].Key)
	}

	aug := buckets[0]
	if aug.Transcript != "https://x/t-aug.pdf" {
		t.Fatalf("first transcript sighting must win, got %s", aug.Transcript)
	}
	if aug.PPT != "https://x/p-aug.pdf" {
		t.Fatalf("unexpected presentation: %s", aug.PPT)
	}

	if got := TruncateBuckets(buckets, 1); len(got) != 1 || got[0].Key != "2023-08" {
		t.Fatalf("truncation must keep the most recent bucket")
	}
}

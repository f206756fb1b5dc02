// Package selection narrows classified candidates down to the set worth
// fetching: recency windows for dated categories, count limits for period
// categories, URL deduplication and most-recent-first ordering.
package selection

import (
	"sort"
	"time"

	"ScreenerFetcher/internal/domain"
)

// FilterWindow retains candidates whose date falls within the requested
// history depth. years == 0 means unlimited and returns the input unchanged.
// The cutoff uses fixed 365-day years, not calendar arithmetic.
func FilterWindow(cands []domain.Candidate, years int, now time.Time) []domain.Candidate {
	if years <= 0 {
		return cands
	}
	cutoff := now.Add(-time.Duration(years) * 365 * 24 * time.Hour)
	out := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if !c.Date.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

// Rank removes duplicate URLs (first occurrence wins) and sorts the
// survivors by date descending. The sort is stable so equal dates keep
// their harvest order.
func Rank(cands []domain.Candidate) []domain.Candidate {
	seen := map[string]struct{}{}
	out := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Truncate keeps the first n entries of an already ranked list.
// n == 0 means unlimited.
func Truncate(cands []domain.Candidate, n int) []domain.Candidate {
	if n <= 0 || len(cands) <= n {
		return cands
	}
	return cands[:n]
}

// BucketConcalls groups transcript and presentation candidates by reporting
// month. A bucket holds at most one URL per document type; the first
// sighting wins. Buckets come back sorted most recent first.
func BucketConcalls(cands []domain.Candidate) []domain.ConcallBucket {
	byKey := map[string]*domain.ConcallBucket{}
	for _, c := range cands {
		if c.PeriodKey == "" {
			continue
		}
		b, ok := byKey[c.PeriodKey]
		if !ok {
			b = &domain.ConcallBucket{Key: c.PeriodKey, Date: c.Date}
			byKey[c.PeriodKey] = b
		}
		switch c.Type {
		case domain.DocTranscript:
			if b.Transcript == "" {
				b.Transcript = c.URL
			}
		case domain.DocPresentation:
			if b.PPT == "" {
				b.PPT = c.URL
			}
		}
	}

	buckets := make([]domain.ConcallBucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key > buckets[j].Key
	})
	return buckets
}

// TruncateBuckets keeps the n most recent buckets. n == 0 means unlimited.
func TruncateBuckets(buckets []domain.ConcallBucket, n int) []domain.ConcallBucket {
	if n <= 0 || len(buckets) <= n {
		return buckets
	}
	return buckets[:n]
}

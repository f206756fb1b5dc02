package classify

import (
	"strconv"
	"strings"
	"time"

	"ScreenerFetcher/internal/domain"
)

// ConcallClassifier recognizes concall transcript or presentation links.
// The link text must equal the marker word exactly (case-insensitive), not
// contain it: substring matching would pick up unrelated links. The date is
// not in the link itself; it is recovered from the nearest ancestor context
// string carrying a "MMM yyyy" pattern.
type ConcallClassifier struct {
	docType domain.DocType
	marker  string
}

// NewTranscriptClassifier matches links whose text is exactly "transcript".
func NewTranscriptClassifier() ConcallClassifier {
	return ConcallClassifier{docType: domain.DocTranscript, marker: "transcript"}
}

// NewPresentationClassifier matches links whose text is exactly "ppt".
func NewPresentationClassifier() ConcallClassifier {
	return ConcallClassifier{docType: domain.DocPresentation, marker: "ppt"}
}

func (c ConcallClassifier) Type() domain.DocType { return c.docType }

func (c ConcallClassifier) Classify(link domain.Link) (domain.Candidate, bool) {
	if link.Href == "" || !strings.EqualFold(strings.TrimSpace(link.Text), c.marker) {
		return domain.Candidate{}, false
	}

	// First ancestor with a month-year pattern decides; if its month
	// abbreviation is bogus the candidate is dropped, not retried deeper.
	for _, context := range link.Ancestors {
		m := monthYearExpr.FindStringSubmatch(context)
		if m == nil {
			continue
		}
		month, ok := monthFromAbbrev(m[1])
		if !ok {
			return domain.Candidate{}, false
		}
		year, err := strconv.Atoi(m[2])
		if err != nil {
			return domain.Candidate{}, false
		}
		date := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return domain.Candidate{
			Type:      c.docType,
			URL:       link.Href,
			Date:      date,
			PeriodKey: date.Format("2006-01"),
		}, true
	}
	return domain.Candidate{}, false
}

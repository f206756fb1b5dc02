package classify

import (
	"strconv"
	"strings"
	"time"

	"ScreenerFetcher/internal/domain"
)

// AnnualClassifier recognizes annual-report links. The link text must carry
// a 4-digit year, the phrase "financial year", and a "from" source marker.
type AnnualClassifier struct{}

func (AnnualClassifier) Type() domain.DocType { return domain.DocAnnualReport }

func (AnnualClassifier) Classify(link domain.Link) (domain.Candidate, bool) {
	text := strings.TrimSpace(link.Text)
	lower := strings.ToLower(text)
	if link.Href == "" {
		return domain.Candidate{}, false
	}
	if !strings.Contains(lower, "financial year") || !strings.Contains(lower, "from") {
		return domain.Candidate{}, false
	}
	match := yearExpr.FindString(text)
	if match == "" {
		return domain.Candidate{}, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return domain.Candidate{}, false
	}
	// A report counts for the whole year it covers.
	return domain.Candidate{
		Type: domain.DocAnnualReport,
		URL:  link.Href,
		Date: time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}, true
}

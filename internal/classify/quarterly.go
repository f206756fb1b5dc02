package classify

import (
	"strconv"
	"strings"
	"time"

	"ScreenerFetcher/internal/domain"
)

const quarterSourceMarker = "/company/source/quarter/"

// QuarterlyClassifier recognizes quarterly-result PDF links. The match is
// structural rather than textual: an accessibility label naming a raw PDF,
// a quarter-source URL, and a reporting period read from the table column
// header aligned with the link's cell.
type QuarterlyClassifier struct{}

func (QuarterlyClassifier) Type() domain.DocType { return domain.DocQuarterly }

func (QuarterlyClassifier) Classify(link domain.Link) (domain.Candidate, bool) {
	if link.Href == "" || !strings.Contains(strings.ToLower(link.AriaLabel), "raw pdf") {
		return domain.Candidate{}, false
	}
	if !strings.Contains(link.Href, quarterSourceMarker) {
		return domain.Candidate{}, false
	}
	if link.ColumnHeader == "" {
		return domain.Candidate{}, false
	}

	m := monthYearExpr.FindStringSubmatch(link.ColumnHeader)
	if m == nil {
		return domain.Candidate{}, false
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
		Type:      domain.DocQuarterly,
		URL:       link.Href,
		Date:      date,
		PeriodKey: date.Format("2006-01"),
	}, true
}

package classify

import (
	"strconv"
	"strings"
	"time"

	"ScreenerFetcher/internal/domain"
)

// RatingClassifier recognizes credit-rating links. The link text must
// mention "rating" and "from" and contain a parseable "d MMM yyyy" date;
// the agency is the token following "from", defaulting to "unknown".
type RatingClassifier struct{}

func (RatingClassifier) Type() domain.DocType { return domain.DocCreditRating }

func (RatingClassifier) Classify(link domain.Link) (domain.Candidate, bool) {
	text := strings.TrimSpace(link.Text)
	lower := strings.ToLower(text)
	if link.Href == "" {
		return domain.Candidate{}, false
	}
	if !strings.Contains(lower, "rating") || !strings.Contains(lower, "from") {
		return domain.Candidate{}, false
	}

	m := dayDateExpr.FindStringSubmatch(text)
	if m == nil {
		return domain.Candidate{}, false
	}
	month, ok := monthFromAbbrev(m[2])
	if !ok {
		return domain.Candidate{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.Candidate{}, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return domain.Candidate{}, false
	}

	agency := "unknown"
	if am := agencyExpr.FindStringSubmatch(lower); am != nil {
		agency = am[1]
	}

	return domain.Candidate{
		Type:  domain.DocCreditRating,
		URL:   link.Href,
		Date:  time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Label: agency,
	}, true
}

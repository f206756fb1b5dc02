package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ScreenerFetcher/internal/domain"
)

// Classifier captures one document-category heuristic. Classifiers are
// intentionally permissive conjunctive matches over rendered text: the only
// available signal is loosely structured page content, and missed documents
// are preferred over false positives.
type Classifier interface {
	Type() domain.DocType
	// Classify inspects a harvested link and either emits a candidate or
	// rejects it. Rejections are silent.
	Classify(link domain.Link) (domain.Candidate, bool)
}

// Registry keeps a mapping from document types to their classifiers.
type Registry struct {
	classifiers map[domain.DocType]Classifier
}

// NewRegistry builds a registry preloaded with all category classifiers.
func NewRegistry() *Registry {
	r := &Registry{classifiers: map[domain.DocType]Classifier{}}
	r.Register(AnnualClassifier{})
	r.Register(RatingClassifier{})
	r.Register(NewTranscriptClassifier())
	r.Register(NewPresentationClassifier())
	r.Register(QuarterlyClassifier{})
	return r
}

// Register adds or replaces a classifier.
func (r *Registry) Register(c Classifier) {
	if r.classifiers == nil {
		r.classifiers = map[domain.DocType]Classifier{}
	}
	r.classifiers[c.Type()] = c
}

// Resolve returns the classifier for a document type or an error if absent.
func (r *Registry) Resolve(t domain.DocType) (Classifier, error) {
	if c, ok := r.classifiers[t]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("classifier %s is not registered", t)
}

// ClassifyAll runs one category's classifier over a harvested link set.
// Unresolvable types yield an empty result rather than an error: a category
// that cannot classify simply finds nothing.
func (r *Registry) ClassifyAll(t domain.DocType, links []domain.Link) []domain.Candidate {
	c, err := r.Resolve(t)
	if err != nil {
		return nil
	}
	var out []domain.Candidate
	for _, link := range links {
		if cand, ok := c.Classify(link); ok {
			out = append(out, cand)
		}
	}
	return out
}

var (
	yearExpr      = regexp.MustCompile(`20\d{2}`)
	dayDateExpr   = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3})\s+(\d{4})`)
	monthYearExpr = regexp.MustCompile(`([A-Za-z]{3})\s+(\d{4})`)
	agencyExpr    = regexp.MustCompile(`from\s+(\w+)`)
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func monthFromAbbrev(s string) (time.Month, bool) {
	m, ok := monthAbbrevs[strings.ToLower(s)]
	return m, ok
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DocType enumerates the document categories offered by the source site.
type DocType string

const (
	DocAnnualReport DocType = "annual_report"
	DocCreditRating DocType = "credit_rating"
	DocTranscript   DocType = "transcript"
	DocPresentation DocType = "presentation"
	DocQuarterly    DocType = "quarterly_report"
)

// Dir returns the per-category subdirectory under the company folder.
func (t DocType) Dir() string {
	switch t {
	case DocAnnualReport:
		return "Annual_Reports"
	case DocCreditRating:
		return "Credit_Ratings"
	case DocTranscript:
		return "Transcripts"
	case DocPresentation:
		return "Presentations"
	case DocQuarterly:
		return "Quarterly_Reports"
	}
	return string(t)
}

// MinBytes is the plausible-size floor for the category: files at or above
// it are kept, existing files above it are skipped without a re-fetch.
// Concall documents can legitimately be short; the rest are substantial PDFs.
func (t DocType) MinBytes() int64 {
	switch t {
	case DocTranscript, DocPresentation:
		return 1000
	default:
		return 5000
	}
}

// Company is one search record returned by the source's search API.
type Company struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Link is a snapshot of one rendered hyperlink. Classifiers operate on this
// value alone and never touch the live page.
type Link struct {
	Text      string
	Href      string
	AriaLabel string
	// Ancestors holds the flattened text of up to three enclosing elements,
	// nearest first. Concall dates live here rather than in the link itself.
	Ancestors []string
	// ColumnHeader is the text of the table header aligned with the link's
	// cell, empty when the link is not inside a table cell.
	ColumnHeader string
}

// Candidate is a discovered, classified, not-yet-fetched document reference.
type Candidate struct {
	Type DocType
	URL  string
	// Date is always resolvable to a comparable point in time: annual
	// reports carry December 31 of their year, period documents the first
	// of their month.
	Date time.Time
	// Label carries the rating agency for credit ratings, lower-cased.
	Label string
	// PeriodKey is the YYYY-MM grouping key for concalls and quarterlies.
	PeriodKey string
}

// Filename derives the deterministic destination file name for the candidate.
func (c Candidate) Filename() string {
	switch c.Type {
	case DocAnnualReport:
		return fmt.Sprintf("Annual_Report_%d.pdf", c.Date.Year())
	case DocCreditRating:
		return fmt.Sprintf("Credit_Rating_%s_%s.pdf", c.Date.Format("2006-01-02"), strings.ToUpper(c.Label))
	case DocTranscript:
		return fmt.Sprintf("Transcript_%s.pdf", c.PeriodKey)
	case DocPresentation:
		return fmt.Sprintf("PPT_%s.pdf", c.PeriodKey)
	case DocQuarterly:
		return fmt.Sprintf("Quarterly_Report_%s.pdf", c.PeriodKey)
	}
	return fmt.Sprintf("%s_%s.pdf", c.Type, c.Date.Format("2006-01-02"))
}

// ConcallBucket groups one reporting month's concall documents. A bucket is
// created on first sighting of either document type and never split.
type ConcallBucket struct {
	Key        string // YYYY-MM
	Date       time.Time
	Transcript string
	PPT        string
}

// FetchOutcome is the tri-state result of one fetch attempt.
type FetchOutcome string

const (
	OutcomeDownloaded FetchOutcome = "downloaded"
	OutcomeSkipped    FetchOutcome = "skipped_existing"
	OutcomeFailed     FetchOutcome = "failed"
)

// FetchRecord is one ledger row describing an attempted download.
type FetchRecord struct {
	RunID       string
	Company     string
	Type        DocType
	URL         string
	Destination string
	Outcome     FetchOutcome
	RecordedAt  time.Time
}

// SectionReport aggregates outcomes for one document category.
type SectionReport struct {
	Title      string
	Found      int
	Downloaded int
	Skipped    int
	Failed     int
}

// Add tallies a single outcome into the report.
func (s *SectionReport) Add(outcome FetchOutcome) {
	switch outcome {
	case OutcomeDownloaded:
		s.Downloaded++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Line renders the human-readable one-line result for the category.
func (s SectionReport) Line() string {
	if s.Found == 0 {
		return fmt.Sprintf("%s — none found", s.Title)
	}
	line := fmt.Sprintf("%s — %d downloaded", s.Title, s.Downloaded)
	if s.Skipped > 0 {
		line += fmt.Sprintf(", %d already existed", s.Skipped)
	}
	if s.Failed > 0 {
		line += fmt.Sprintf(", %d failed", s.Failed)
	}
	return line
}

// RunSummary is the final result of one run.
type RunSummary struct {
	Downloaded  int
	Skipped     int
	Failed      int
	Sections    []SectionReport
	ArchivePath string
}

// Absorb folds a section report into the run totals.
func (r *RunSummary) Absorb(s SectionReport) {
	r.Downloaded += s.Downloaded
	r.Skipped += s.Skipped
	r.Failed += s.Failed
	r.Sections = append(r.Sections, s)
}

var unsafeNameExpr = regexp.MustCompile(`[^\w\-. ]`)

// SafeName sanitizes a company display name for use as a directory name.
func SafeName(name string) string {
	return unsafeNameExpr.ReplaceAllString(name, "_")
}

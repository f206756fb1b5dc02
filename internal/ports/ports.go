package ports

import (
	"context"

	"ScreenerFetcher/internal/domain"
)

// CompanySearcher resolves a free-text query against the source's search API.
type CompanySearcher interface {
	Search(ctx context.Context, query string) ([]domain.Company, error)
}

// Section describes a page region to bring on screen before harvesting.
type Section struct {
	// Heading is the visible text of the section heading to scroll to.
	Heading string
	// HeadingTag is the heading element name, "h2" or "h3".
	HeadingTag string
	// Expand clicks the section's show-more control after scrolling.
	Expand bool
	// ExpandHint, when set, selects a show-more button whose surrounding
	// text contains the hint instead of the section-local icon control.
	ExpandHint string
}

// LinkSource is the rendered-page capability: a live session that can reveal
// sections and report the current set of rendered hyperlinks. Callers are
// responsible for sequencing Reveal before Links; the implementation waits
// for content to settle after each interaction.
type LinkSource interface {
	Navigate(ctx context.Context, pageURL string) error
	// Reveal scrolls the section into view and optionally expands it.
	// A missing section or control is not an error.
	Reveal(ctx context.Context, section Section) error
	Links(ctx context.Context) ([]domain.Link, error)
	Close() error
}

// Fetcher downloads a URL to a destination path, honoring the skip-if-exists
// rule and the minimum plausible size for the category.
type Fetcher interface {
	Fetch(ctx context.Context, fileURL, dest string, minBytes int64) domain.FetchOutcome
}

// Archiver packages a directory tree into a single compressed archive.
type Archiver interface {
	Package(root string) ([]byte, error)
}

// FetchLedger records attempted downloads for audit. Implementations must
// tolerate being nil-checked away; ledger failures never abort a run.
type FetchLedger interface {
	RecordFetch(ctx context.Context, rec domain.FetchRecord) error
}

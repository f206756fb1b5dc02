package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ScreenerFetcher/internal/classify"
	"ScreenerFetcher/internal/domain"
	"ScreenerFetcher/internal/ports"
	"ScreenerFetcher/internal/selection"
)

// PipelineDeps wires all driven adapters into the run pipeline.
type PipelineDeps struct {
	Source      ports.LinkSource
	Classifiers *classify.Registry
	Fetcher     ports.Fetcher
	Archiver    ports.Archiver
	Ledger      ports.FetchLedger
	Logger      *slog.Logger
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
	// Pause is the politeness delay observed between successive fetches.
	Pause time.Duration
	RunID string
}

// Request carries all per-run inputs: the selected company, the enabled
// document categories and their history depths.
type Request struct {
	Company   domain.Company
	PageURL   string
	OutputDir string

	Annual        bool
	Credit        bool
	Transcripts   bool
	Presentations bool
	Quarterly     bool

	// Years of history for date-windowed categories, count limits for
	// period categories. Zero means unlimited.
	AnnualYears    int
	CreditYears    int
	ConcallCount   int
	QuarterlyCount int

	// Requesting more annual history than this expands the section first.
	ExpandThresholdYears int
}

// Pipeline processes one company page: reveal each requested section,
// harvest its rendered links, classify, select, and fetch. Strictly
// sequential: one category completes before the next begins.
type Pipeline struct {
	source      ports.LinkSource
	classifiers *classify.Registry
	fetcher     ports.Fetcher
	archiver    ports.Archiver
	ledger      ports.FetchLedger
	logger      *slog.Logger
	now         func() time.Time
	pause       time.Duration
	runID       string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:      deps.Source,
		classifiers: deps.Classifiers,
		fetcher:     deps.Fetcher,
		archiver:    deps.Archiver,
		ledger:      deps.Ledger,
		logger:      deps.Logger,
		now:         now,
		pause:       deps.Pause,
		runID:       deps.RunID,
	}
}

// Run executes the full document pipeline for one company. Per-section and
// per-link failures are absorbed into the summary; only failure to reach the
// company page at all aborts the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (domain.RunSummary, error) {
	var summary domain.RunSummary

	if p.source == nil || p.fetcher == nil || p.classifiers == nil {
		return summary, fmt.Errorf("pipeline is not fully wired")
	}

	p.info("loading company page", "company", req.Company.Name, "url", req.PageURL)
	if err := p.source.Navigate(ctx, req.PageURL); err != nil {
		return summary, fmt.Errorf("open company page: %w", err)
	}

	companyDir := filepath.Join(req.OutputDir, domain.SafeName(req.Company.Name))

	if req.Annual {
		summary.Absorb(p.annualReports(ctx, req, companyDir))
	}
	if req.Credit {
		summary.Absorb(p.creditRatings(ctx, req, companyDir))
	}
	if req.Transcripts || req.Presentations {
		for _, report := range p.concalls(ctx, req, companyDir) {
			summary.Absorb(report)
		}
	}
	if req.Quarterly {
		summary.Absorb(p.quarterlyReports(ctx, req, companyDir))
	}

	if summary.Downloaded > 0 && p.archiver != nil {
		archivePath, err := p.packageRun(companyDir)
		if err != nil {
			p.warn("archive packaging failed", "error", err)
		} else {
			summary.ArchivePath = archivePath
		}
	}

	return summary, nil
}

func (p *Pipeline) annualReports(ctx context.Context, req Request, dir string) domain.SectionReport {
	report := domain.SectionReport{Title: "Annual Reports"}
	p.info("processing annual reports")

	// The default view shows only recent years; deeper requests need the
	// history expanded before scanning.
	expand := req.AnnualYears == 0 || req.AnnualYears > req.ExpandThresholdYears
	p.reveal(ctx, ports.Section{Heading: "Annual reports", HeadingTag: "h3", Expand: expand})

	cands := p.classifiers.ClassifyAll(domain.DocAnnualReport, p.harvest(ctx))
	cands = selection.Rank(selection.FilterWindow(cands, req.AnnualYears, p.now()))

	report.Found = len(cands)
	p.fetchAll(ctx, req.Company.Name, cands, dir, &report)
	return report
}

func (p *Pipeline) creditRatings(ctx context.Context, req Request, dir string) domain.SectionReport {
	report := domain.SectionReport{Title: "Credit Ratings"}
	p.info("processing credit ratings")

	p.reveal(ctx, ports.Section{Heading: "Credit ratings", HeadingTag: "h3", Expand: true})

	cands := p.classifiers.ClassifyAll(domain.DocCreditRating, p.harvest(ctx))
	cands = selection.Rank(selection.FilterWindow(cands, req.CreditYears, p.now()))

	report.Found = len(cands)
	p.fetchAll(ctx, req.Company.Name, cands, dir, &report)
	return report
}

func (p *Pipeline) concalls(ctx context.Context, req Request, dir string) []domain.SectionReport {
	p.info("processing transcripts and presentations")

	p.reveal(ctx, ports.Section{Heading: "Concalls", HeadingTag: "h3", Expand: true, ExpandHint: "concall"})

	links := p.harvest(ctx)
	cands := p.classifiers.ClassifyAll(domain.DocTranscript, links)
	cands = append(cands, p.classifiers.ClassifyAll(domain.DocPresentation, links)...)

	buckets := selection.TruncateBuckets(selection.BucketConcalls(cands), req.ConcallCount)

	transcripts := domain.SectionReport{Title: "Transcripts", Found: len(buckets)}
	presentations := domain.SectionReport{Title: "Presentations", Found: len(buckets)}

	for i, bucket := range buckets {
		if req.Transcripts && bucket.Transcript != "" {
			cand := domain.Candidate{
				Type:      domain.DocTranscript,
				URL:       bucket.Transcript,
				Date:      bucket.Date,
				PeriodKey: bucket.Key,
			}
			p.fetchOne(ctx, req.Company.Name, cand, dir, &transcripts)
		}
		if req.Presentations && bucket.PPT != "" {
			cand := domain.Candidate{
				Type:      domain.DocPresentation,
				URL:       bucket.PPT,
				Date:      bucket.Date,
				PeriodKey: bucket.Key,
			}
			p.fetchOne(ctx, req.Company.Name, cand, dir, &presentations)
		}
		if i < len(buckets)-1 {
			p.breathe(ctx)
		}
	}

	var reports []domain.SectionReport
	if req.Transcripts {
		reports = append(reports, transcripts)
	}
	if req.Presentations {
		reports = append(reports, presentations)
	}
	return reports
}

func (p *Pipeline) quarterlyReports(ctx context.Context, req Request, dir string) domain.SectionReport {
	report := domain.SectionReport{Title: "Quarterly Reports"}
	p.info("processing quarterly reports")

	p.reveal(ctx, ports.Section{Heading: "Quarterly Results", HeadingTag: "h2"})

	cands := p.classifiers.ClassifyAll(domain.DocQuarterly, p.harvest(ctx))
	cands = selection.Truncate(selection.Rank(cands), req.QuarterlyCount)

	report.Found = len(cands)
	p.fetchAll(ctx, req.Company.Name, cands, dir, &report)
	return report
}

// reveal brings a section on screen. A missing section or control yields
// zero candidates later, never an error.
func (p *Pipeline) reveal(ctx context.Context, section ports.Section) {
	if err := p.source.Reveal(ctx, section); err != nil {
		p.debug("section not revealed", "section", section.Heading, "error", err)
	}
}

// harvest returns the current rendered link set, empty on failure.
func (p *Pipeline) harvest(ctx context.Context) []domain.Link {
	links, err := p.source.Links(ctx)
	if err != nil {
		p.warn("link harvest failed", "error", err)
		return nil
	}
	return links
}

func (p *Pipeline) fetchAll(ctx context.Context, company string, cands []domain.Candidate, dir string, report *domain.SectionReport) {
	for i, cand := range cands {
		p.fetchOne(ctx, company, cand, dir, report)
		if i < len(cands)-1 {
			p.breathe(ctx)
		}
	}
}

func (p *Pipeline) fetchOne(ctx context.Context, company string, cand domain.Candidate, dir string, report *domain.SectionReport) {
	dest := filepath.Join(dir, cand.Type.Dir(), cand.Filename())
	outcome := p.fetcher.Fetch(ctx, cand.URL, dest, cand.Type.MinBytes())
	report.Add(outcome)
	p.record(ctx, company, cand, dest, outcome)
}

// record writes the ledger row; audit failures never abort a run.
func (p *Pipeline) record(ctx context.Context, company string, cand domain.Candidate, dest string, outcome domain.FetchOutcome) {
	if p.ledger == nil {
		return
	}
	err := p.ledger.RecordFetch(ctx, domain.FetchRecord{
		RunID:       p.runID,
		Company:     company,
		Type:        cand.Type,
		URL:         cand.URL,
		Destination: dest,
		Outcome:     outcome,
		RecordedAt:  p.now(),
	})
	if err != nil {
		p.warn("ledger write failed", "error", err)
	}
}

// packageRun zips the company directory and writes the archive next to it.
func (p *Pipeline) packageRun(companyDir string) (string, error) {
	data, err := p.archiver.Package(companyDir)
	if err != nil {
		return "", err
	}
	archivePath := companyDir + ".zip"
	if err := os.WriteFile(archivePath, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return archivePath, nil
}

// breathe observes the politeness delay between fetches.
func (p *Pipeline) breathe(ctx context.Context) {
	if p.pause <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(p.pause):
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

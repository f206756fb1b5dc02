package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"ScreenerFetcher/internal/classify"
	"ScreenerFetcher/internal/config"
	"ScreenerFetcher/internal/domain"
	"ScreenerFetcher/internal/infrastructure/archive"
	"ScreenerFetcher/internal/infrastructure/browser"
	"ScreenerFetcher/internal/infrastructure/fetch"
	"ScreenerFetcher/internal/infrastructure/search"
	"ScreenerFetcher/internal/infrastructure/storage"
	"ScreenerFetcher/internal/ports"
	"ScreenerFetcher/internal/usecase"
)

// Application wires config to the adapters and the run pipeline.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	searcher *search.Client
	db       *sql.DB
	ledger   ports.FetchLedger
}

// New builds the application. The fetch ledger is wired only when a DSN is
// configured; a ledger that cannot connect downgrades to no ledger.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) *Application {
	a := &Application{
		cfg:    cfg,
		logger: logger,
		searcher: search.NewClient(cfg.Source.BaseURL, &http.Client{
			Timeout: cfg.Source.SearchTimeout(),
		}),
	}

	if cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Warn("fetch ledger unavailable", "error", err)
		} else {
			a.db = db
			a.ledger = storage.NewPostgresLedger(db)
		}
	}

	return a
}

// Close releases application-scoped resources.
func (a *Application) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Search resolves a company query; failures surface as an empty result set.
func (a *Application) Search(ctx context.Context, query string) []domain.Company {
	companies, err := a.searcher.Search(ctx, query)
	if err != nil {
		a.logger.Warn("company search failed", "error", err)
		return nil
	}
	return companies
}

// PageURL resolves a company record to its absolute page URL.
func (a *Application) PageURL(company domain.Company) string {
	return a.searcher.PageURL(company)
}

// Run acquires a browser session, executes the pipeline for the selected
// company, and guarantees session teardown on every exit path. Session
// startup failure is the only fatal error class.
func (a *Application) Run(ctx context.Context, req usecase.Request) (domain.RunSummary, error) {
	if req.OutputDir == "" {
		dir, err := os.MkdirTemp("", "screenerfetcher-")
		if err != nil {
			return domain.RunSummary{}, err
		}
		req.OutputDir = dir
	}
	if req.ExpandThresholdYears == 0 {
		req.ExpandThresholdYears = a.cfg.Browser.ExpandThresholdYears
	}

	a.logger.Info("starting browser session")
	session, err := browser.NewSession(ctx, browser.Options{
		Headful:      a.cfg.Browser.Headful,
		LoadTimeout:  a.cfg.Browser.PageLoadTimeout(),
		SettleDelay:  a.cfg.Browser.SettleDelay(),
		WindowWidth:  a.cfg.Browser.WindowWidth,
		WindowHeight: a.cfg.Browser.WindowHeight,
	})
	if err != nil {
		return domain.RunSummary{}, err
	}
	defer func() {
		_ = session.Close()
	}()

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      session,
		Classifiers: classify.NewRegistry(),
		Fetcher: fetch.NewDownloader(&http.Client{Timeout: a.cfg.Download.Timeout()},
			a.logger.With("component", "downloader")),
		Archiver: archive.ZipPackager{},
		Ledger:   a.ledger,
		Logger:   a.logger.With("component", "pipeline"),
		Pause:    a.cfg.Download.Pause(),
		RunID:    uuid.NewString(),
	})

	return pipeline.Run(ctx, req)
}

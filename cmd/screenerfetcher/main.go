// screenerfetcher downloads a company's filings (annual reports, credit
// ratings, concall transcripts and presentations, quarterly results) from
// Screener.in and packages them into a zip archive.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ScreenerFetcher/internal/app"
	"ScreenerFetcher/internal/config"
	"ScreenerFetcher/internal/logging"
	"ScreenerFetcher/internal/usecase"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func execute() error {
	// Load .env early so environment overrides are visible to config.
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

type options struct {
	cfgFile string
	pick    int
	outDir  string

	annual        bool
	credit        bool
	transcripts   bool
	presentations bool
	quarterly     bool

	annualYears    int
	creditYears    int
	concallCount   int
	quarterlyCount int
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "screenerfetcher <company>",
		Short: "Download company filings from Screener.in into a zip archive",
		Long: `screenerfetcher searches Screener.in for a company, drives a headless
browser against its page, and downloads the requested document types into
a deterministic folder layout packaged as <Company>.zip.

History depths of 0 mean unlimited. Google Chrome must be installed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (YAML)")
	flags.IntVar(&opts.pick, "pick", 1, "which search result to use (1-based)")
	flags.StringVar(&opts.outDir, "out", "", "output directory (default: a temp dir)")

	flags.BoolVar(&opts.annual, "annual", true, "download annual reports")
	flags.BoolVar(&opts.credit, "credit", true, "download credit ratings")
	flags.BoolVar(&opts.transcripts, "transcripts", false, "download concall transcripts")
	flags.BoolVar(&opts.presentations, "presentations", false, "download concall presentations")
	flags.BoolVar(&opts.quarterly, "quarterly", false, "download quarterly reports")

	flags.IntVar(&opts.annualYears, "annual-years", 1, "years of annual reports (0 = all)")
	flags.IntVar(&opts.creditYears, "credit-years", 1, "years of credit ratings (0 = all)")
	flags.IntVar(&opts.concallCount, "concalls", 4, "quarters of transcripts/presentations (0 = all)")
	flags.IntVar(&opts.quarterlyCount, "quarterly-count", 4, "quarterly results to fetch (0 = all)")

	return cmd
}

func run(cmd *cobra.Command, query string, opts options) error {
	if !(opts.annual || opts.credit || opts.transcripts || opts.presentations || opts.quarterly) {
		return fmt.Errorf("select at least one document type")
	}

	cfg := config.Load(opts.cfgFile)
	if opts.outDir != "" {
		cfg.Download.OutputDir = opts.outDir
	}
	logger := logging.New(cfg.Logging.Level)

	ctx := cmd.Context()
	application := app.New(ctx, cfg, logger)
	defer application.Close()

	companies := application.Search(ctx, query)
	if len(companies) == 0 {
		fmt.Printf("No results for %q.\n", query)
		return nil
	}
	if len(companies) > 10 {
		companies = companies[:10]
	}
	for i, c := range companies {
		fmt.Printf("%2d. %s\n", i+1, c.Name)
	}
	if opts.pick < 1 || opts.pick > len(companies) {
		return fmt.Errorf("--pick %d is out of range 1..%d", opts.pick, len(companies))
	}
	selected := companies[opts.pick-1]
	fmt.Printf("\nSelected: %s\n", selected.Name)

	summary, err := application.Run(ctx, usecase.Request{
		Company:        selected,
		PageURL:        application.PageURL(selected),
		OutputDir:      cfg.Download.OutputDir,
		Annual:         opts.annual,
		Credit:         opts.credit,
		Transcripts:    opts.transcripts,
		Presentations:  opts.presentations,
		Quarterly:      opts.quarterly,
		AnnualYears:    opts.annualYears,
		CreditYears:    opts.creditYears,
		ConcallCount:   opts.concallCount,
		QuarterlyCount: opts.quarterlyCount,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	for _, section := range summary.Sections {
		fmt.Println(section.Line())
	}
	fmt.Printf("\nDownloaded: %d  Skipped: %d  Failed: %d\n",
		summary.Downloaded, summary.Skipped, summary.Failed)
	if summary.ArchivePath != "" {
		fmt.Printf("Archive: %s\n", summary.ArchivePath)
	}
	return nil
}

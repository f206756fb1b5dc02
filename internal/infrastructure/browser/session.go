package browser

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"ScreenerFetcher/internal/domain"
	"ScreenerFetcher/internal/ports"
	"ScreenerFetcher/pkg/logger"
)

// Options configures the headless browser session.
type Options struct {
	Headful      bool
	LoadTimeout  time.Duration
	SettleDelay  time.Duration
	WindowWidth  int
	WindowHeight int
}

func (o Options) withDefaults() Options {
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = 60 * time.Second
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 3 * time.Second
	}
	if o.WindowWidth <= 0 {
		o.WindowWidth = 1920
	}
	// A very tall window keeps lazily rendered sections on screen.
	if o.WindowHeight <= 0 {
		o.WindowHeight = 10000
	}
	return o
}

// Session drives one headless Chrome tab pointed at a company page and
// exposes it as a rendered-link source. Acquired once per run and torn down
// on every exit path.
type Session struct {
	tab         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	pageURL     *url.URL
	opts        Options
}

var _ ports.LinkSource = (*Session)(nil)

// NewSession launches the browser eagerly so a startup failure surfaces
// before any navigation is attempted.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Headful),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.New("chromedp").Printf),
	)

	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser session: %w", err)
	}

	return &Session{
		tab:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
	}, nil
}

// Navigate loads the company page and waits for it to settle.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("invalid page url %s: %w", pageURL, err)
	}

	runCtx, cancel := s.bounded(ctx)
	defer cancel()

	err = chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("html", chromedp.ByQuery),
		chromedp.Sleep(s.opts.SettleDelay),
	)
	if err != nil {
		return fmt.Errorf("load %s: %w", pageURL, err)
	}
	s.pageURL = parsed
	return nil
}

// Reveal scrolls the section heading into view and, when requested, clicks
// its show-more control and scrolls through the newly rendered content.
// Absent sections or controls are silent no-ops.
func (s *Session) Reveal(ctx context.Context, section ports.Section) error {
	runCtx, cancel := s.bounded(ctx)
	defer cancel()

	tag := section.HeadingTag
	if tag == "" {
		tag = "h3"
	}

	var found bool
	err := chromedp.Run(runCtx,
		chromedp.Evaluate(scrollToHeadingJS(tag, section.Heading), &found),
		chromedp.Sleep(s.opts.SettleDelay),
	)
	if err != nil {
		return fmt.Errorf("scroll to %q: %w", section.Heading, err)
	}
	if !section.Expand {
		return nil
	}

	expandJS := expandSectionJS(tag, section.Heading)
	if section.ExpandHint != "" {
		expandJS = expandHintedJS(section.ExpandHint)
	}

	var expanded bool
	actions := []chromedp.Action{
		chromedp.Evaluate(expandJS, &expanded),
		chromedp.Sleep(s.opts.SettleDelay),
	}
	// Scroll through whatever the expander revealed so it all renders.
	for i := 0; i < 10; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollBy(0, 250)`, nil),
			chromedp.Sleep(300*time.Millisecond),
		)
	}
	actions = append(actions, chromedp.Sleep(time.Second))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return fmt.Errorf("expand %q: %w", section.Heading, err)
	}
	return nil
}

// Links dumps the rendered document and extracts the full hyperlink set.
func (s *Session) Links(ctx context.Context) ([]domain.Link, error) {
	runCtx, cancel := s.bounded(ctx)
	defer cancel()

	var rendered string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &rendered, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("dump rendered page: %w", err)
	}
	return ExtractLinks(rendered, s.pageURL)
}

// Close tears down the tab and the browser process.
func (s *Session) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}

// bounded derives a per-operation deadline from the tab context. chromedp
// operations must chain from the tab, so the caller's context only gates
// whether the operation starts at all.
func (s *Session) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.tab, s.opts.LoadTimeout)
	if ctx.Err() != nil {
		cancel()
	}
	return runCtx, cancel
}

func scrollToHeadingJS(tag, heading string) string {
	return fmt.Sprintf(`(() => {
		const nodes = document.querySelectorAll(%q);
		for (const n of nodes) {
			if ((n.textContent || '').includes(%q)) {
				n.scrollIntoView({block: 'center'});
				return true;
			}
		}
		return false;
	})()`, tag, heading)
}

func expandSectionJS(tag, heading string) string {
	return fmt.Sprintf(`(() => {
		const nodes = document.querySelectorAll(%q);
		for (const n of nodes) {
			if (!(n.textContent || '').includes(%q)) continue;
			const sec = n.parentElement;
			if (!sec) return false;
			const icon = sec.querySelector('div.show-more-box i.icon-down');
			if (!icon) return false;
			icon.scrollIntoView({block: 'center'});
			icon.click();
			return true;
		}
		return false;
	})()`, tag, heading)
}

func expandHintedJS(hint string) string {
	return fmt.Sprintf(`(() => {
		const buttons = document.querySelectorAll('button.show-more-button');
		for (const b of buttons) {
			const holder = b.parentElement && b.parentElement.parentElement;
			const text = holder ? (holder.textContent || '') : '';
			if (text.toLowerCase().includes(%q)) {
				b.click();
				return true;
			}
		}
		return false;
	})()`, hint)
}

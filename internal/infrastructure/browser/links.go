package browser

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ScreenerFetcher/internal/domain"
)

var spaceExpr = regexp.MustCompile(`\s+`)

// ExtractLinks parses a rendered HTML dump and returns every hyperlink with
// the context classifiers need: visible text, absolute href, accessibility
// label, up to three levels of ancestor text, and the aligned table column
// header for links sitting inside table cells.
func ExtractLinks(rendered string, pageURL *url.URL) ([]domain.Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parse rendered page: %w", err)
	}

	var links []domain.Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}
		if pageURL != nil {
			if parsed, perr := url.Parse(href); perr == nil {
				href = pageURL.ResolveReference(parsed).String()
			}
		}

		links = append(links, domain.Link{
			Text:         squashSpace(sel.Text()),
			Href:         href,
			AriaLabel:    sel.AttrOr("aria-label", ""),
			Ancestors:    ancestorTexts(sel, 3),
			ColumnHeader: columnHeader(sel),
		})
	})
	return links, nil
}

// ancestorTexts walks up to depth enclosing elements and returns their
// flattened text, nearest first.
func ancestorTexts(sel *goquery.Selection, depth int) []string {
	var out []string
	node := sel.Parent()
	for i := 0; i < depth && node.Length() > 0; i++ {
		out = append(out, squashSpace(node.Text()))
		node = node.Parent()
	}
	return out
}

// columnHeader performs the positional join between a link's table cell and
// the header row: the header at the same column index names the period the
// cell belongs to. Empty when the link is not in a cell or no header aligns.
func columnHeader(sel *goquery.Selection) string {
	cell := sel.Closest("td")
	if cell.Length() == 0 {
		return ""
	}
	row := cell.Closest("tr")
	if row.Length() == 0 {
		return ""
	}

	idx := -1
	row.ChildrenFiltered("td").EachWithBreak(func(i int, td *goquery.Selection) bool {
		if len(td.Nodes) > 0 && len(cell.Nodes) > 0 && td.Nodes[0] == cell.Nodes[0] {
			idx = i
			return false
		}
		return true
	})
	if idx < 0 {
		return ""
	}

	table := cell.Closest("table")
	headers := table.Find("thead th")
	if headers.Length() == 0 {
		headers = table.Find("tr").First().Find("th, td")
	}
	if idx >= headers.Length() {
		return ""
	}
	return squashSpace(headers.Eq(idx).Text())
}

func squashSpace(s string) string {
	return strings.TrimSpace(spaceExpr.ReplaceAllString(s, " "))
}

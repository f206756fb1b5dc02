package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ScreenerFetcher/internal/domain"
)

func TestSearch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/company/search/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "acme industries" {
			t.Errorf("unexpected query: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Acme Industries","url":"/company/ACME/"},{"name":"Acme Pumps","url":"/company/ACMEP/"}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, server.Client())
	companies, err := c.Search(context.Background(), "acme industries")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(companies))
	}
	if companies[0].Name != "Acme Industries" {
		t.Fatalf("unexpected first result: %s", companies[0].Name)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, server.Client())
	if _, err := c.Search(context.Background(), "acme"); err == nil {
		t.Fatalf("expected an error on non-200 response")
	}
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	c := NewClient("https://www.screener.in/", nil)

	if got := c.PageURL(domain.Company{URL: "/company/ACME/"}); got != "https://www.screener.in/company/ACME/" {
		t.Fatalf("unexpected page url: %s", got)
	}
	if got := c.PageURL(domain.Company{URL: "https://elsewhere.example/x"}); got != "https://elsewhere.example/x" {
		t.Fatalf("absolute urls must pass through, got %s", got)
	}
}

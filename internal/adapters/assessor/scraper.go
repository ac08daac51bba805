// Package assessor resolves property owners from public records. Coverage
// is per-jurisdiction and best-effort: callers must treat a nil record as
// the normal case.
package assessor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"landlordwatch/internal/adapters/observability"
	"landlordwatch/internal/domain"
)

const (
	acrisURL       = "https://a836-acris.nyc.gov/DS/DocumentSearch/BBL"
	laCountyBase   = "https://portal.assessor.lacounty.gov"
	cookCountyURL  = "https://www.cookcountyassessor.com/address-search"
	webSearchBase  = "https://www.google.com/search"
	defaultTimeout = 10 * time.Second
)

// Scraper owns one shared headless browser session, created lazily on the
// first lookup that needs it and reused until Close.
type Scraper struct {
	hc      *http.Client
	timeout time.Duration
	laBase  string

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Scraper{
		hc:      &http.Client{Timeout: timeout},
		timeout: timeout,
		laBase:  laCountyBase,
	}
}

// PropertyOwner routes to the jurisdiction-specific lookup. A nil record
// with nil error means no owner could be determined.
func (s *Scraper) PropertyOwner(ctx context.Context, address, city, state string) (*domain.OwnerRecord, error) {
	cityL := strings.ToLower(city)
	stateL := strings.ToLower(state)

	switch {
	case stateL == "ny" && strings.Contains(cityL, "new york"):
		return s.nycOwner(ctx, address)
	case stateL == "ca" && strings.Contains(cityL, "los angeles"):
		return s.laCountyOwner(ctx, address)
	case stateL == "il" && strings.Contains(cityL, "chicago"):
		return s.cookCountyOwner(ctx, address)
	default:
		return s.genericOwner(ctx, address, city, state)
	}
}

// Close releases the shared browser. Safe to call multiple times.
func (s *Scraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.browserCtx = nil
}

func (s *Scraper) browser() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCtx != nil && s.browserCtx.Err() == nil {
		return s.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	return browserCtx, nil
}

// render runs the actions in a fresh tab of the shared browser, bounded by
// the scraper timeout and the caller's context, and parses the resulting
// page.
func (s *Scraper) render(ctx context.Context, actions ...chromedp.Action) (*goquery.Document, error) {
	browser, err := s.browser()
	if err != nil {
		return nil, err
	}
	tab, tabCancel := chromedp.NewContext(browser)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	runCtx, cancel := context.WithTimeout(tab, s.timeout)
	defer cancel()

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))
	if err := chromedp.Run(runCtx, actions...); err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (s *Scraper) nycOwner(ctx context.Context, address string) (*domain.OwnerRecord, error) {
	doc, err := s.render(ctx,
		chromedp.Navigate(acrisURL),
		chromedp.WaitVisible(`#txtPropertyAddress`),
		chromedp.SendKeys(`#txtPropertyAddress`, address),
		chromedp.Click(`#btnSearch`),
		chromedp.WaitVisible(`.search-results`),
	)
	if err != nil {
		return nil, err
	}
	owner := strings.TrimSpace(doc.Find(".owner-name").First().Text())
	if owner == "" {
		return nil, nil
	}
	return &domain.OwnerRecord{
		OwnerName: owner,
		Address:   address,
		City:      "New York",
		State:     "NY",
		Source:    "NYC ACRIS",
	}, nil
}

// LA County exposes parcel detail over plain HTTP, no browser needed.
func (s *Scraper) laCountyOwner(ctx context.Context, address string) (*domain.OwnerRecord, error) {
	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/parceldetail?address=%s", s.laBase, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(rctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("assessor", "la_county", resp.StatusCode, time.Since(start))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("la county assessor: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	owner := strings.TrimSpace(doc.Find("#owner-name").Text())
	if owner == "" {
		return nil, nil
	}
	return &domain.OwnerRecord{
		OwnerName: owner,
		Address:   address,
		City:      "Los Angeles",
		State:     "CA",
		Source:    "LA County Assessor",
	}, nil
}

func (s *Scraper) cookCountyOwner(ctx context.Context, address string) (*domain.OwnerRecord, error) {
	doc, err := s.render(ctx,
		chromedp.Navigate(cookCountyURL),
		chromedp.WaitVisible(`#address-input`),
		chromedp.SendKeys(`#address-input`, address),
		chromedp.Click(`#search-button`),
		chromedp.WaitVisible(`.property-details`),
	)
	if err != nil {
		return nil, err
	}
	owner := strings.TrimSpace(doc.Find(".owner-name").First().Text())
	if owner == "" {
		return nil, nil
	}
	return &domain.OwnerRecord{
		OwnerName: owner,
		Address:   address,
		City:      "Chicago",
		State:     "IL",
		Source:    "Cook County Assessor",
	}, nil
}

// genericOwner falls back to mining web search snippets for ownership
// phrases. Lowest-confidence source.
func (s *Scraper) genericOwner(ctx context.Context, address, city, state string) (*domain.OwnerRecord, error) {
	query := fmt.Sprintf("%q property owner %s %s", address, city, state)
	doc, err := s.render(ctx, chromedp.Navigate(webSearchBase+"?q="+url.QueryEscape(query)))
	if err != nil {
		return nil, err
	}

	var owner string
	doc.Find(".g").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(sel.Text())
		if !strings.Contains(text, "owner") && !strings.Contains(text, "property") && !strings.Contains(text, "landlord") {
			return true
		}
		owner = ownerFromSnippet(sel.Find(".VwiC3b").Text())
		return owner == ""
	})
	if owner == "" {
		return nil, nil
	}
	return &domain.OwnerRecord{
		OwnerName: owner,
		Address:   address,
		City:      city,
		State:     state,
		Source:    "Web Search",
	}, nil
}

var ownerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)owned by ([^,.\n]+)`),
	regexp.MustCompile(`(?i)owner:?\s*([^,.\n]+)`),
	regexp.MustCompile(`(?i)landlord:?\s*([^,.\n]+)`),
}

func ownerFromSnippet(snippet string) string {
	for _, re := range ownerPatterns {
		if m := re.FindStringSubmatch(snippet); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

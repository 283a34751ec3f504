package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/httputil"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

const profilePageURL = "https://finance.yahoo.com/quote/%s/profile"

// companyProfile is the scraped sector/industry pair
type companyProfile struct {
	Sector   string
	Industry string
}

// profileScraper recovers sector/industry from the public profile page
// when the summary API omits them. Small caps and recent listings hit
// this path regularly.
type profileScraper struct {
	http   *httputil.Client
	logger *logger.Logger
}

func newProfileScraper(httpClient *httputil.Client, log *logger.Logger) *profileScraper {
	return &profileScraper{http: httpClient, logger: log}
}

// fetch scrapes the profile page for one symbol
func (s *profileScraper) fetch(ctx context.Context, symbol string) (*companyProfile, error) {
	endpoint := fmt.Sprintf(profilePageURL, symbol)

	resp, err := s.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: profile page for %s: %v", contracts.ErrUpstreamUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile page for %s returned %d", contracts.ErrUpstreamUnavailable, symbol, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: profile parse for %s: %v", contracts.ErrUpstreamUnavailable, symbol, err)
	}

	profile := &companyProfile{}

	// The profile block labels each classification with a sibling span:
	// <span>Sector</span> ... <a>Technology</a>
	doc.Find("span").Each(func(_ int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.Text())
		switch label {
		case "Sector", "Sector:":
			if profile.Sector == "" {
				profile.Sector = nextValueText(sel)
			}
		case "Industry", "Industry:":
			if profile.Industry == "" {
				profile.Industry = nextValueText(sel)
			}
		}
	})

	if profile.Sector == "" && profile.Industry == "" {
		return nil, fmt.Errorf("%w: profile for %s has no classification", contracts.ErrNotFound, symbol)
	}

	return profile, nil
}

// nextValueText reads the value element following a label span
func nextValueText(label *goquery.Selection) string {
	next := label.NextFiltered("a, span")
	if next.Length() == 0 {
		next = label.Parent().Find("a").First()
	}
	return strings.TrimSpace(next.Text())
}

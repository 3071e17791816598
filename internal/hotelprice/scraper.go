package hotelprice

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-trip-planner/config"
)

type Scraper struct {
	logger      *slog.Logger
	client      *http.Client
	baseURL     string
	limiter     *rate.Limiter
	concurrency int
}

func New(cfg config.ScraperConfig, client *http.Client, logger *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Scraper{
		logger:      logger,
		client:      client,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		limiter:     rate.NewLimiter(limit, 1),
		concurrency: concurrency,
	}
}

// PageURL is where the page for hotel lives.
func (s *Scraper) PageURL(hotel string) string {
	return s.baseURL + "/hotels/" + url.PathEscape(hotel)
}

// Fetch downloads and parses the page for one hotel.
func (s *Scraper) Fetch(ctx context.Context, hotel string) (Quote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Quote{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.PageURL(hotel), nil)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to fetch %q: %w", hotel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("failed to fetch %q: unexpected status %d", hotel, resp.StatusCode)
	}

	name, price, err := ParsePage(resp.Body)
	if err != nil {
		return Quote{}, err
	}
	return Quote{Query: hotel, Name: name, Price: price}, nil
}

// Scrape fetches every hotel and returns the quotes in input order. Pages that
// fail are logged and left out. Only cancellation of ctx is returned as an error.
func (s *Scraper) Scrape(ctx context.Context, hotels []string) ([]Quote, error) {
	results := make([]*Quote, len(hotels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, hotel := range hotels {
		g.Go(func() error {
			q, err := s.Fetch(gctx, hotel)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.WarnContext(gctx, "Skipping hotel page", slog.String("hotel", hotel), slog.Any("error", err))
				return nil
			}
			results[i] = &q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	quotes := make([]Quote, 0, len(hotels))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, nil
}

// WriteCSV writes a hotel_name,price header followed by one row per quote.
func WriteCSV(w io.Writer, quotes []Quote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"hotel_name", "price"}); err != nil {
		return err
	}
	for _, q := range quotes {
		if err := cw.Write([]string{q.Name, q.Price}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

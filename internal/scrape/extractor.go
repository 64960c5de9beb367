// Package scrape turns listing markup into records and drives the
// paginated fetch loop.
package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/redson/jobradar/internal/jobs"
	"github.com/redson/jobradar/internal/reltime"
)

// Card selectors for the upstream listing fragment markup.
const (
	cardSelector     = "div.base-card"
	linkSelector     = "a.base-card__full-link"
	titleSelector    = "span.sr-only"
	companySelector  = "a.hidden-nested-link"
	locationSelector = "span.job-search-card__location"
	timeSelector     = "time"
	statusSelector   = "span.job-search-card__status"
)

// Extractor parses one page of markup into raw records. Fields missing
// from a card are left empty; a card is never dropped field-by-field.
type Extractor struct {
	times  *reltime.Resolver
	logger *zap.Logger
}

// NewExtractor builds an Extractor.
func NewExtractor(times *reltime.Resolver, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{times: times, logger: logger}
}

// Extract returns the records found in the markup. Relative posting
// times are resolved against fetchedAt, the page-fetch instant. An
// empty result means the page had no recognizable job cards.
func (e *Extractor) Extract(markup string, fetchedAt time.Time) []jobs.Record {
	if strings.TrimSpace(markup) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		e.logger.Warn("unparseable page markup", zap.Error(err))
		return nil
	}

	cards := doc.Find(cardSelector)
	if cards.Length() == 0 {
		e.logger.Warn("no job cards found in page; possible markup change")
		return nil
	}

	records := make([]jobs.Record, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		record := jobs.Record{
			URL:      strings.TrimSpace(card.Find(linkSelector).AttrOr("href", "")),
			Title:    cleanText(card.Find(titleSelector).First().Text()),
			Company:  cleanText(card.Find(companySelector).First().Text()),
			Location: cleanText(card.Find(locationSelector).First().Text()),
			Status:   cleanText(card.Find(statusSelector).First().Text()),
		}

		if phrase := cleanText(card.Find(timeSelector).First().Text()); phrase != "" {
			if resolved, ok := e.times.Resolve(phrase, fetchedAt); ok {
				record.PostingTime = resolved
			} else {
				e.logger.Warn("could not parse relative time", zap.String("phrase", phrase))
			}
		}

		records = append(records, record)
	})
	return records
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// Package news fetches per-ticker headlines from an RSS or Atom feed.
package news

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

var tagRegex = regexp.MustCompile(`<[^>]*>`)

type Headline struct {
	Title     string
	Summary   string
	URL       string
	Source    string
	Published time.Time
}

type Parser struct {
	parser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		parser: gofeed.NewParser(),
	}
}

// Parse returns the feed's items newest first. Items without a title are
// skipped.
func (p *Parser) Parse(reader io.Reader) ([]Headline, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	headlines := make([]Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		h := Headline{
			Title:   title,
			Summary: plainText(item.Description),
			URL:     item.Link,
			Source:  feed.Title,
		}
		if item.PublishedParsed != nil {
			h.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			h.Published = *item.UpdatedParsed
		}
		headlines = append(headlines, h)
	}

	sort.SliceStable(headlines, func(i, j int) bool {
		return headlines[i].Published.After(headlines[j].Published)
	})
	return headlines, nil
}

func plainText(s string) string {
	s = tagRegex.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/screener/internal/storage"
)

// Engine scores the symbol catalog in memory without an index.
type Engine struct {
	store *storage.Store
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

// Suggest ranks catalog symbols against the query. Ticker matches outrank
// company name matches.
func (e *Engine) Suggest(query string, limit int) ([]*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*Result{}, nil
	}

	symbols, err := e.store.GetAllSymbols()
	if err != nil {
		return nil, err
	}

	terms := tokenize(query)
	var results []*Result
	for _, sym := range symbols {
		if r := e.scoreSymbol(sym, query, terms); r != nil {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Symbol < results[j].Symbol
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (e *Engine) scoreSymbol(sym *storage.Symbol, query string, terms []string) *Result {
	var matches []Match
	var total float64

	if s := scoreTicker(sym.Symbol, query); s > 0 {
		matches = append(matches, Match{Field: "symbol", Text: sym.Symbol, Weight: s})
		total += s
	}

	if s := e.scoreField(sym.Name, terms, 2.0); s > 0 {
		matches = append(matches, Match{Field: "name", Text: truncate(sym.Name, 60), Weight: s})
		total += s
	}

	if total == 0 {
		return nil
	}
	return &Result{Symbol: sym.Symbol, Name: sym.Name, Score: total, Matches: matches}
}

func scoreTicker(ticker, query string) float64 {
	t := strings.ToUpper(ticker)
	q := strings.ToUpper(query)
	switch {
	case t == q:
		return 10
	case strings.HasPrefix(t, q):
		return 6 + float64(len(q))/float64(len(t))
	case strings.Contains(t, q):
		return 2
	}
	return 0
}

// scoreField calculates relevance score for a field
func (e *Engine) scoreField(text string, terms []string, weight float64) float64 {
	if text == "" || len(terms) == 0 {
		return 0
	}

	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	// Boost score if multiple terms match
	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize breaks text into lower-case terms
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			terms = append(terms, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		terms = append(terms, current.String())
	}

	return terms
}

// truncate limits text length with ellipsis
func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-1] + "…"
}

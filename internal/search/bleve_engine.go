package search

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/pders01/screener/internal/storage"
)

type bleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine creates or opens a Bleve index at indexPath and indexes the
// current symbol catalog.
func NewBleveEngine(store *storage.Store, indexPath string) (Searcher, error) {
	var idx bleve.Index
	var err error

	// Open/Create below reports the real error if this fails
	_ = os.MkdirAll(filepath.Dir(indexPath), 0o755)

	idx, err = bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, err
		}
	}

	be := &bleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	// lower-cased ticker kept whole for prefix queries
	ticker := bleve.NewTextFieldMapping()
	ticker.Analyzer = keyword.Name
	ticker.Store = false

	symbol := bleve.NewTextFieldMapping()
	symbol.Analyzer = keyword.Name
	symbol.Store = true

	name := bleve.NewTextFieldMapping()
	name.Analyzer = standard.Name
	name.Store = true
	name.IncludeTermVectors = true

	dm.AddFieldMappingsAt("ticker", ticker)
	dm.AddFieldMappingsAt("symbol", symbol)
	dm.AddFieldMappingsAt("name", name)

	im.DefaultMapping = dm
	return im
}

func symbolDoc(s *storage.Symbol) map[string]any {
	return map[string]any{
		"ticker": strings.ToLower(s.Symbol),
		"symbol": s.Symbol,
		"name":   s.Name,
	}
}

func (b *bleveEngine) reindexAll() error {
	symbols, err := b.store.GetAllSymbols()
	if err != nil {
		return err
	}
	batch := b.idx.NewBatch()
	for _, s := range symbols {
		_ = batch.Index(docIDForSymbol(s.Symbol), symbolDoc(s))
	}
	return b.idx.Batch(batch)
}

func (b *bleveEngine) Suggest(query string, limit int) ([]*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	lower := strings.ToLower(query)
	var qs []bleveQuery.Query

	exact := bleve.NewTermQuery(lower)
	exact.SetField("ticker")
	exact.SetBoost(10.0)
	qs = append(qs, exact)

	prefix := bleve.NewPrefixQuery(lower)
	prefix.SetField("ticker")
	prefix.SetBoost(6.0)
	qs = append(qs, prefix)

	for _, tok := range tokenize(query) {
		qn := bleve.NewMatchQuery(tok)
		qn.SetField("name")
		qn.SetBoost(2.0)
		qs = append(qs, qn)
		qnp := bleve.NewPrefixQuery(tok)
		qnp.SetField("name")
		qnp.SetBoost(1.5)
		qs = append(qs, qnp)
	}

	q := bleve.NewDisjunctionQuery(qs...)
	srch := bleve.NewSearchRequestOptions(q, limit, 0, false)
	srch.Fields = []string{"symbol", "name"}
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		r := &Result{Symbol: strings.TrimPrefix(h.ID, "symbol:"), Score: h.Score}
		if s, ok := h.Fields["symbol"].(string); ok {
			r.Symbol = s
		}
		if n, ok := h.Fields["name"].(string); ok {
			r.Name = n
		}
		out = append(out, r)
	}
	return out, nil
}

// OnSymbolsUpdated indexes the provided symbols.
func (b *bleveEngine) OnSymbolsUpdated(symbols []*storage.Symbol) {
	batch := b.idx.NewBatch()
	for _, s := range symbols {
		_ = batch.Index(docIDForSymbol(s.Symbol), symbolDoc(s))
	}
	_ = b.idx.Batch(batch)
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *bleveEngine) Close() error {
	return b.idx.Close()
}

func docIDForSymbol(symbol string) string { return "symbol:" + strings.ToUpper(symbol) }

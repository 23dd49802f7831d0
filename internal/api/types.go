package api

import "github.com/pders01/screener/internal/filter"

// Stock is one row of the ticker summary list.
type Stock struct {
	Ticker               string   `json:"ticker"`
	CompanyName          string   `json:"companyName"`
	MarketCap            *float64 `json:"marketCap,omitempty"`
	PreviousClose        *float64 `json:"previousClose,omitempty"`
	PERatio              *float64 `json:"peRatio,omitempty"`
	ForwardPERatio       *float64 `json:"forwardPeRatio,omitempty"`
	DividendYield        *float64 `json:"dividendYield,omitempty"`
	PayoutRatio          *float64 `json:"payoutRatio,omitempty"`
	FiftyDayAverage      *float64 `json:"fiftyDayAverage,omitempty"`
	TwoHundredDayAverage *float64 `json:"twoHundredDayAverage,omitempty"`
}

type Suggestion struct {
	Symbol string   `json:"symbol"`
	Name   string   `json:"name"`
	Score  *float64 `json:"score,omitempty"`
}

type autocompleteResponse struct {
	Query   string       `json:"query"`
	Results []Suggestion `json:"results"`
}

type SortInfo struct {
	Empty    bool `json:"empty"`
	Sorted   bool `json:"sorted"`
	Unsorted bool `json:"unsorted"`
}

// SearchPage is the backend's paged response. PageNumber is zero based.
type SearchPage struct {
	Content          []Stock  `json:"content"`
	PageNumber       int      `json:"pageNumber"`
	PageSize         int      `json:"pageSize"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	NumberOfElements int      `json:"numberOfElements"`
	Sort             SortInfo `json:"sort"`
}

// EmptySearchPage is what a failed search resolves to.
func EmptySearchPage() SearchPage {
	return SearchPage{
		Content:  []Stock{},
		PageSize: filter.DefaultPageSize,
		Sort:     SortInfo{Empty: true, Unsorted: true},
	}
}

// ResultPage is a SearchPage in display terms, with a one based page.
type ResultPage struct {
	Stocks     []Stock `json:"stocks"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

func (p SearchPage) Results() ResultPage {
	stocks := p.Content
	if stocks == nil {
		stocks = []Stock{}
	}
	return ResultPage{
		Stocks:     stocks,
		Total:      p.TotalElements,
		Page:       p.PageNumber + 1,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

type MovingAverage struct {
	MovingAverage                  *float64 `json:"movingAverage,omitempty"`
	PercentChangeFromPreviousClose *float64 `json:"percentChangeFromPreviousClose,omitempty"`
}

type Valuation struct {
	MarketCap            *float64      `json:"marketCap,omitempty"`
	PERatio              *float64      `json:"peRatio,omitempty"`
	ForwardPERatio       *float64      `json:"forwardPeRatio,omitempty"`
	EnterpriseToEBITDA   *float64      `json:"enterpriseToEbitda,omitempty"`
	PriceToBook          *float64      `json:"priceToBook,omitempty"`
	FiftyDayAverage      MovingAverage `json:"fiftyDayAverage"`
	TwoHundredDayAverage MovingAverage `json:"twoHundredDayAverage"`
}

type Margin struct {
	GrossMargin     *float64 `json:"grossMargin,omitempty"`
	OperatingMargin *float64 `json:"operatingMargin,omitempty"`
	ProfitMargin    *float64 `json:"profitMargin,omitempty"`
	EBITDAMargin    *float64 `json:"ebitdaMargin,omitempty"`
}

type Growth struct {
	EarningsGrowth        *float64 `json:"earningsGrowth,omitempty"`
	ForwardEarningsGrowth *float64 `json:"forwardEarningsGrowth,omitempty"`
	RevenueGrowth         *float64 `json:"revenueGrowth,omitempty"`
	TrailingEPS           *float64 `json:"trailingEps,omitempty"`
	ForwardEPS            *float64 `json:"forwardEps,omitempty"`
	PEG                   *float64 `json:"peg,omitempty"`
}

type Dividend struct {
	DividendYield *float64 `json:"dividendYield,omitempty"`
	PayoutRatio   *float64 `json:"payoutRatio,omitempty"`
}

// StockDetails is the summary shown on the detail view.
type StockDetails struct {
	PreviousClose *float64  `json:"previousClose,omitempty"`
	CompanyName   string    `json:"companyName,omitempty"`
	Valuation     Valuation `json:"valuation"`
	Margin        Margin    `json:"margin"`
	Growth        Growth    `json:"growth"`
	Dividend      Dividend  `json:"dividend"`
}

package screener

import "github.com/pders01/screener/internal/filter"

// WidgetOrder is the display order of the filter widgets.
var WidgetOrder = []filter.Dimension{
	filter.DimPrice,
	filter.DimMarketCapCategories,
	filter.DimPE,
	filter.DimForwardPE,
	filter.DimDividend,
	filter.DimDividendGrowth,
	filter.DimPayout,
}

// FilterPanel wires the widgets to a FilterCoordinator. Widget events flow
// into the coordinator; applied snapshots and the reset generation flow
// back to the widgets after every operation.
type FilterPanel struct {
	coord      *FilterCoordinator
	ranges     map[filter.Dimension]*RangeWidget
	categories *CategoryWidget
}

func NewFilterPanel(initial filter.Options, outbox *Outbox) *FilterPanel {
	coord := NewFilterCoordinator(initial, outbox)
	p := &FilterPanel{
		coord:      coord,
		ranges:     make(map[filter.Dimension]*RangeWidget),
		categories: NewCategoryWidget(initial.MarketCapCategories, coord.ResetGeneration()),
	}
	for _, d := range WidgetOrder {
		spec, ok := filter.SpecFor(d)
		if !ok {
			continue
		}
		r, _ := initial.Range(d)
		p.ranges[d] = NewRangeWidget(spec, r, coord.ResetGeneration())
	}
	return p
}

func (p *FilterPanel) Coordinator() *FilterCoordinator { return p.coord }

// Range returns the widget of a range dimension, or nil.
func (p *FilterPanel) Range(d filter.Dimension) *RangeWidget { return p.ranges[d] }

func (p *FilterPanel) Categories() *CategoryWidget { return p.categories }

func (p *FilterPanel) Toggle(d filter.Dimension) {
	p.coord.Toggle(d)
}

// Focus routes interaction to d, closing any other open widget.
func (p *FilterPanel) Focus(d filter.Dimension) {
	p.coord.FocusMoved(d)
}

func (p *FilterPanel) Close() {
	p.coord.CloseOpen()
}

func (p *FilterPanel) IsOpen(d filter.Dimension) bool {
	return p.coord.IsOpen(d)
}

func (p *FilterPanel) State(d filter.Dimension) WidgetState {
	open := p.coord.IsOpen(d)
	if d == filter.DimMarketCapCategories {
		return p.categories.State(open)
	}
	if w := p.ranges[d]; w != nil {
		return w.State(open)
	}
	return Closed
}

// EditMin replaces the min text of a range widget, opening it if needed.
func (p *FilterPanel) EditMin(d filter.Dimension, text string) error {
	w, err := p.editable(d)
	if err != nil {
		return err
	}
	return p.pending(w, w.SetMinText(text))
}

func (p *FilterPanel) EditMax(d filter.Dimension, text string) error {
	w, err := p.editable(d)
	if err != nil {
		return err
	}
	return p.pending(w, w.SetMaxText(text))
}

func (p *FilterPanel) editable(d filter.Dimension) (*RangeWidget, error) {
	w := p.ranges[d]
	if w == nil {
		return nil, filter.ErrUnknownDimension
	}
	if !p.coord.IsOpen(d) {
		p.coord.Open(d)
	}
	return w, nil
}

func (p *FilterPanel) pending(w *RangeWidget, change PendingChange) error {
	spec := w.Spec()
	if err := p.coord.UpdatePending(spec.MinField, change.Min); err != nil {
		return err
	}
	return p.coord.UpdatePending(spec.MaxField, change.Max)
}

func (p *FilterPanel) ToggleCategory(key string) {
	if !p.coord.IsOpen(filter.DimMarketCapCategories) {
		p.coord.Open(filter.DimMarketCapCategories)
	}
	p.coord.UpdatePendingCategories(p.categories.Toggle(key))
}

func (p *FilterPanel) ClearCategories() {
	p.coord.UpdatePendingCategories(p.categories.Clear())
}

// Apply commits the widget for d. It reports false when the widget is not
// in a state that allows applying.
func (p *FilterPanel) Apply(d filter.Dimension) bool {
	open := p.coord.IsOpen(d)
	if d == filter.DimMarketCapCategories {
		cats, ok := p.categories.Apply(open)
		if !ok {
			return false
		}
		p.coord.ApplyCategories(cats)
		p.sync()
		return true
	}
	w := p.ranges[d]
	if w == nil {
		return false
	}
	r, ok := w.Apply(open)
	if !ok {
		return false
	}
	if err := p.coord.ApplyOne(d, r.Min, r.Max); err != nil {
		return false
	}
	p.sync()
	return true
}

// ApplyAll commits every pending edit. It is refused while any widget holds
// invalid input.
func (p *FilterPanel) ApplyAll() bool {
	for _, w := range p.ranges {
		if len(w.Errors()) > 0 {
			return false
		}
	}
	if !p.coord.ApplyAll() {
		return false
	}
	p.sync()
	return true
}

func (p *FilterPanel) Reset() {
	p.coord.Reset()
	p.sync()
}

func (p *FilterPanel) sync() {
	applied := p.coord.Applied()
	gen := p.coord.ResetGeneration()
	for d, w := range p.ranges {
		r, _ := applied.Range(d)
		w.Observe(r, gen)
	}
	p.categories.Observe(applied.MarketCapCategories, gen)
}

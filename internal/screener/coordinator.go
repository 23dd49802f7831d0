package screener

import (
	"errors"
	"slices"

	"github.com/pders01/screener/internal/filter"
)

// ErrDerivedMarketCap is returned when the market-cap range is set directly
// while a category selection is driving it.
var ErrDerivedMarketCap = errors.New("market cap range is derived from the category selection")

// FilterCoordinator owns the applied and pending filter sets, the dirty
// field set and which widget is open. Committed changes are posted to the
// outbox as full snapshots.
type FilterCoordinator struct {
	applied  filter.Options
	pending  filter.Options
	dirty    map[filter.Field]struct{}
	open     filter.Dimension
	resetGen uint64
	outbox   *Outbox
}

func NewFilterCoordinator(initial filter.Options, outbox *Outbox) *FilterCoordinator {
	return &FilterCoordinator{
		applied: initial.Clone(),
		pending: initial.Clone(),
		dirty:   make(map[filter.Field]struct{}),
		outbox:  outbox,
	}
}

// UpdatePending records an edit to a single bound and recomputes whether
// that field differs from the applied value.
func (c *FilterCoordinator) UpdatePending(f filter.Field, v *float64) error {
	if err := c.pending.SetBound(f, v); err != nil {
		return err
	}
	applied, _ := c.applied.Bound(f)
	c.markDirty(f, !filter.FloatEqual(applied, v))
	return nil
}

// UpdatePendingCategories records an edit to the category selection.
func (c *FilterCoordinator) UpdatePendingCategories(categories []string) {
	c.pending.MarketCapCategories = slices.Clone(categories)
	c.markDirty(filter.FieldMarketCapCategories,
		!filter.SameCategories(categories, c.applied.MarketCapCategories))
}

// ApplyOne commits a single range dimension, closes the open widget and
// posts the new applied snapshot with page reset to 1.
func (c *FilterCoordinator) ApplyOne(d filter.Dimension, minV, maxV *float64) error {
	spec, ok := filter.SpecFor(d)
	if !ok {
		return filter.ErrUnknownDimension
	}
	if d == filter.DimMarketCap && len(c.applied.MarketCapCategories) > 0 {
		return ErrDerivedMarketCap
	}
	r := filter.Range{Min: minV, Max: maxV}
	_ = c.applied.SetRange(d, r)
	_ = c.pending.SetRange(d, r)
	c.applied.Page = filter.Int(filter.DefaultPage)
	delete(c.dirty, spec.MinField)
	delete(c.dirty, spec.MaxField)
	c.commit(false)
	return nil
}

// ApplyCategories commits the category selection together with the
// market-cap range derived from it.
func (c *FilterCoordinator) ApplyCategories(categories []string) {
	derived := filter.DeriveMarketCap(categories)
	for _, o := range []*filter.Options{&c.applied, &c.pending} {
		o.MarketCapCategories = slices.Clone(categories)
		o.MarketCap = derived
	}
	c.applied.Page = filter.Int(filter.DefaultPage)
	delete(c.dirty, filter.FieldMarketCapCategories)
	delete(c.dirty, filter.FieldMinMarketCap)
	delete(c.dirty, filter.FieldMaxMarketCap)
	c.commit(false)
}

// ApplyAll commits every pending edit at once. It reports false, and posts
// nothing, when no field is dirty.
func (c *FilterCoordinator) ApplyAll() bool {
	if len(c.dirty) == 0 {
		return false
	}
	if _, ok := c.dirty[filter.FieldMarketCapCategories]; ok {
		c.pending.MarketCap = filter.DeriveMarketCap(c.pending.MarketCapCategories)
	}
	c.pending.Page = filter.Int(filter.DefaultPage)
	c.applied = c.pending.Clone()
	clear(c.dirty)
	c.commit(false)
	return true
}

// Reset restores the defaults for both sets, bumps the reset generation and
// posts a reset snapshot.
func (c *FilterCoordinator) Reset() {
	c.applied = filter.Defaults()
	c.pending = filter.Defaults()
	clear(c.dirty)
	c.resetGen++
	c.commit(true)
}

func (c *FilterCoordinator) commit(reset bool) {
	c.open = ""
	if c.outbox != nil {
		c.outbox.Post(FilterChange{Options: c.applied.Clone(), Reset: reset})
	}
}

func (c *FilterCoordinator) markDirty(f filter.Field, dirty bool) {
	if dirty {
		c.dirty[f] = struct{}{}
	} else {
		delete(c.dirty, f)
	}
}

// AppliedFilterCount is the number of dimensions constraining the applied
// query. A range counts once whichever bounds are set.
func (c *FilterCoordinator) AppliedFilterCount() int {
	return len(c.applied.AppliedDimensions())
}

// DirtyFilterCount is the number of dimensions with at least one pending
// field that differs from the applied value.
func (c *FilterCoordinator) DirtyFilterCount() int {
	return len(c.DirtyDimensions())
}

func (c *FilterCoordinator) DirtyDimensions() []filter.Dimension {
	seen := make(map[filter.Dimension]struct{})
	var dims []filter.Dimension
	for f := range c.dirty {
		d, ok := filter.DimensionOf(f)
		if !ok {
			continue
		}
		if _, dup := seen[d]; !dup {
			seen[d] = struct{}{}
			dims = append(dims, d)
		}
	}
	slices.Sort(dims)
	return dims
}

func (c *FilterCoordinator) HasDirty() bool {
	return len(c.dirty) > 0
}

// CanReset reports whether a reset would change anything.
func (c *FilterCoordinator) CanReset() bool {
	return c.AppliedFilterCount() > 0 || c.HasDirty()
}

func (c *FilterCoordinator) Applied() filter.Options { return c.applied.Clone() }

func (c *FilterCoordinator) Pending() filter.Options { return c.pending.Clone() }

func (c *FilterCoordinator) ResetGeneration() uint64 { return c.resetGen }

// OpenDimension is the currently open widget, or "" when none is.
func (c *FilterCoordinator) OpenDimension() filter.Dimension { return c.open }

func (c *FilterCoordinator) IsOpen(d filter.Dimension) bool {
	return d != "" && c.open == d
}

// Toggle opens d, closing any other widget, or closes d if it is open.
func (c *FilterCoordinator) Toggle(d filter.Dimension) {
	if c.open == d {
		c.open = ""
		return
	}
	c.open = d
}

func (c *FilterCoordinator) Open(d filter.Dimension) {
	c.open = d
}

func (c *FilterCoordinator) CloseOpen() {
	c.open = ""
}

// FocusMoved closes the open widget when interaction lands outside it.
func (c *FilterCoordinator) FocusMoved(target filter.Dimension) {
	if c.open != "" && target != c.open {
		c.open = ""
	}
}

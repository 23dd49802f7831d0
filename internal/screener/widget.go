package screener

import (
	"slices"
	"strconv"

	"github.com/pders01/screener/internal/filter"
)

// WidgetState is the lifecycle state of a filter widget.
type WidgetState int

const (
	Closed WidgetState = iota
	OpenClean
	OpenDirty
	OpenInvalid
)

func (s WidgetState) String() string {
	switch s {
	case Closed:
		return "closed"
	case OpenClean:
		return "open"
	case OpenDirty:
		return "dirty"
	case OpenInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// PendingChange is emitted on every bound edit.
type PendingChange struct {
	Dimension filter.Dimension
	Min       *float64
	Max       *float64
}

// RangeWidget holds the transient edit state of one range dimension. The
// applied range is a snapshot owned by the coordinator.
type RangeWidget struct {
	spec     filter.DimensionSpec
	applied  filter.Range
	pending  filter.Range
	minText  string
	maxText  string
	errs     filter.Errors
	resetGen uint64
}

func NewRangeWidget(spec filter.DimensionSpec, applied filter.Range, resetGen uint64) *RangeWidget {
	w := &RangeWidget{spec: spec, resetGen: resetGen}
	w.seed(applied)
	return w
}

func (w *RangeWidget) Spec() filter.DimensionSpec { return w.spec }

func (w *RangeWidget) MinText() string { return w.minText }

func (w *RangeWidget) MaxText() string { return w.maxText }

func (w *RangeWidget) Applied() filter.Range { return w.applied }

func (w *RangeWidget) Pending() filter.Range { return w.pending }

// Errors returns the inline validation messages for the current input.
func (w *RangeWidget) Errors() filter.Errors {
	return w.errs
}

func (w *RangeWidget) SetMinText(text string) PendingChange {
	w.minText = text
	w.revalidate()
	return w.change()
}

func (w *RangeWidget) SetMaxText(text string) PendingChange {
	w.maxText = text
	w.revalidate()
	return w.change()
}

// Dirty reports whether either pending bound differs from the applied one.
func (w *RangeWidget) Dirty() bool {
	return !w.pending.Equal(w.applied)
}

func (w *RangeWidget) State(open bool) WidgetState {
	switch {
	case !open:
		return Closed
	case len(w.errs) > 0:
		return OpenInvalid
	case w.Dirty():
		return OpenDirty
	default:
		return OpenClean
	}
}

// Apply commits the pending range when the widget is open, dirty and valid.
func (w *RangeWidget) Apply(open bool) (filter.Range, bool) {
	if w.State(open) != OpenDirty {
		return filter.Range{}, false
	}
	w.applied = w.pending
	return w.pending, true
}

// Observe receives the coordinator's applied snapshot and reset generation.
// A new generation clears the pending input regardless of state; a changed
// applied range reseeds it.
func (w *RangeWidget) Observe(applied filter.Range, resetGen uint64) {
	if resetGen != w.resetGen {
		w.resetGen = resetGen
		w.applied = applied
		w.pending = filter.Range{}
		w.minText, w.maxText = "", ""
		w.errs = filter.Errors{}
		return
	}
	if !applied.Equal(w.applied) {
		w.seed(applied)
	}
}

func (w *RangeWidget) seed(applied filter.Range) {
	w.applied = applied
	w.pending = applied
	w.minText = formatBound(applied.Min)
	w.maxText = formatBound(applied.Max)
	w.errs = filter.Errors{}
}

func (w *RangeWidget) revalidate() {
	w.pending, w.errs = filter.ValidateText(w.spec, w.minText, w.maxText)
}

func (w *RangeWidget) change() PendingChange {
	return PendingChange{Dimension: w.spec.Dimension, Min: w.pending.Min, Max: w.pending.Max}
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// CategoryWidget is the market-cap tier multi-select.
type CategoryWidget struct {
	applied  []string
	pending  []string
	resetGen uint64
}

func NewCategoryWidget(applied []string, resetGen uint64) *CategoryWidget {
	return &CategoryWidget{
		applied:  slices.Clone(applied),
		pending:  slices.Clone(applied),
		resetGen: resetGen,
	}
}

// Toggle flips a tier in the pending selection and returns the new
// selection. Unknown tiers are ignored.
func (w *CategoryWidget) Toggle(key string) []string {
	if _, ok := filter.TierByKey(key); !ok {
		return w.Pending()
	}
	if i := slices.Index(w.pending, key); i >= 0 {
		w.pending = slices.Delete(w.pending, i, i+1)
	} else {
		w.pending = append(w.pending, key)
	}
	return w.Pending()
}

func (w *CategoryWidget) Clear() []string {
	w.pending = nil
	return nil
}

func (w *CategoryWidget) Selected(key string) bool {
	return slices.Contains(w.pending, key)
}

func (w *CategoryWidget) Pending() []string { return slices.Clone(w.pending) }

func (w *CategoryWidget) Applied() []string { return slices.Clone(w.applied) }

func (w *CategoryWidget) Dirty() bool {
	return !filter.SameCategories(w.pending, w.applied)
}

func (w *CategoryWidget) State(open bool) WidgetState {
	switch {
	case !open:
		return Closed
	case w.Dirty():
		return OpenDirty
	default:
		return OpenClean
	}
}

func (w *CategoryWidget) Apply(open bool) ([]string, bool) {
	if w.State(open) != OpenDirty {
		return nil, false
	}
	w.applied = slices.Clone(w.pending)
	return w.Pending(), true
}

func (w *CategoryWidget) Observe(applied []string, resetGen uint64) {
	if resetGen != w.resetGen {
		w.resetGen = resetGen
		w.applied = slices.Clone(applied)
		w.pending = nil
		return
	}
	if !slices.Equal(applied, w.applied) {
		w.applied = slices.Clone(applied)
		w.pending = slices.Clone(applied)
	}
}

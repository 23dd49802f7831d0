package screener

// MaxVisibleSlots caps the number of page buttons.
const MaxVisibleSlots = 21

// PageLabel is a page button, or a gap marker when Gap is set.
type PageLabel struct {
	Page int
	Gap  bool
}

// PageLabels builds the page window: visible pages centred on current and
// clamped to [1, total], plus the first and last pages with gap markers
// where pages are skipped. When the total fits every page is listed.
func PageLabels(current, total, visible int) []PageLabel {
	if total <= 0 {
		return nil
	}
	current = min(max(current, 1), total)
	visible = max(visible, 1)

	if total <= visible {
		labels := make([]PageLabel, 0, total)
		for p := 1; p <= total; p++ {
			labels = append(labels, PageLabel{Page: p})
		}
		return labels
	}

	start := max(1, current-visible/2)
	end := start + visible - 1
	if end > total {
		end = total
		start = end - visible + 1
	}

	var labels []PageLabel
	if start > 1 {
		labels = append(labels, PageLabel{Page: 1})
		if start > 2 {
			labels = append(labels, PageLabel{Gap: true})
		}
	}
	for p := start; p <= end; p++ {
		labels = append(labels, PageLabel{Page: p})
	}
	if end < total {
		if end < total-1 {
			labels = append(labels, PageLabel{Gap: true})
		}
		labels = append(labels, PageLabel{Page: total})
	}
	return labels
}

// VisibleSlots is the number of page buttons that fit in the available
// width: an odd count between 1 and MaxVisibleSlots.
func VisibleSlots(available, buttonWidth int) int {
	if buttonWidth <= 0 {
		return 1
	}
	n := max(1, available/buttonWidth)
	if n%2 == 0 {
		n = max(1, n-1)
	}
	return min(n, MaxVisibleSlots)
}

// ShownRange returns the 1-based indexes of the first and last rows shown
// on a page, or zeros when the page is empty.
func ShownRange(page, pageSize, rows int, total int64) (int64, int64) {
	if rows == 0 || total == 0 {
		return 0, 0
	}
	from := int64(page-1)*int64(pageSize) + 1
	to := min(from+int64(rows)-1, total)
	return from, to
}

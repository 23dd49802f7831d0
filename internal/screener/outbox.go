// Package screener coordinates filter editing, querying and pagination for
// the stock screener independently of any UI toolkit.
package screener

import "github.com/pders01/screener/internal/filter"

// FilterChange is a committed filter snapshot. Reset marks a wholesale
// return to defaults, sort included.
type FilterChange struct {
	Options filter.Options
	Reset   bool
}

// Outbox queues filter changes so they reach the query side after the
// current update has finished. Changes are delivered in post order and
// never merged.
type Outbox struct {
	queue []FilterChange
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Post(c FilterChange) {
	o.queue = append(o.queue, c)
}

// Drain returns and clears every queued change.
func (o *Outbox) Drain() []FilterChange {
	out := o.queue
	o.queue = nil
	return out
}

func (o *Outbox) Len() int {
	return len(o.queue)
}

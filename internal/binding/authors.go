package binding

// FallbackAuthor is the byline used for every slot when no author pool is
// configured.
const FallbackAuthor = "Staff Writer"

type slotKey struct {
	title string
	slot  int
}

// Allocator hands out bylines round-robin from an ordered pool. The first
// request for a given (article, slot-index) pair consumes the next pool name
// and memoizes it; repeat requests return the memoized name, so re-binding
// the same articles never skews the distribution. One Allocator instance is
// owned per run and threaded through both binding passes, which keeps a
// given article's bylines identical everywhere it is referenced.
type Allocator struct {
	pool     []string
	next     int
	assigned map[slotKey]string
}

// NewAllocator creates an allocator over the configured pool. A nil or
// empty pool yields FallbackAuthor for every slot.
func NewAllocator(pool []string) *Allocator {
	return &Allocator{
		pool:     pool,
		assigned: make(map[slotKey]string),
	}
}

// Assign returns the byline for one author slot of an article. title is the
// article's identity; slot is the node's ordinal among the author
// sub-selector matches within its element.
func (a *Allocator) Assign(title string, slot int) string {
	if len(a.pool) == 0 {
		return FallbackAuthor
	}

	key := slotKey{title: title, slot: slot}
	if name, ok := a.assigned[key]; ok {
		return name
	}

	name := a.pool[a.next%len(a.pool)]
	a.next++
	a.assigned[key] = name
	return name
}

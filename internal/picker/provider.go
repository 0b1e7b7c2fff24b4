package picker

import "context"

// Provider is the interface for data sources that supply items to the picker.
type Provider interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// Request describes what items the picker wants from a Provider.
type Request struct {
	RequestID uint64 // Monotonically increasing, for stale response detection
	Query     string // Search filter
	TabID     string // Active tab identifier
	Category  string // Category filter of the active tab ("" = all)
	Limit     int
	Offset    int
}

// Item is one row in the picker.
type Item struct {
	ID         string // Returned to the caller on selection
	Label      string // Display text
	Category   string // Shown dimmed after the label
	Highlights []int  // Rune indices into Label to emphasise
	Score      int
}

// Response carries items back from a Provider.
type Response struct {
	RequestID uint64 // Must match Request.RequestID to be accepted
	Items     []Item
	AtEnd     bool // No more pages available
}

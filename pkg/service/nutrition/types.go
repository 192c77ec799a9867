package nutrition

import "context"

// Result is the aggregated outcome of a natural-language nutrition lookup:
// total calories across all parsed food components and their canonical
// names joined into a display string.
type Result struct {
	FoodName  string
	TotalKcal float64
}

// Service resolves a natural-language quantity+food phrase (e.g. "2 apple")
// against an external nutrition database.
//
// Lookup is three-valued: (result, nil) on success, (nil, nil) when the
// service has no data for the phrase, and (nil, err) on transport or
// protocol failure. Callers treat the last two identically and continue
// their fallback chain; the error is only for logging.
type Service interface {
	Lookup(ctx context.Context, phrase string) (*Result, error)
}

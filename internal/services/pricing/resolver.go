package pricing

import (
	"context"
	"fmt"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/DonJuan-DeMarco/cs2investments/internal/services/csfloat"
)

// listingLimit is how many listings are requested per item. Only the first
// (lowest-price) listing is authoritative; the rest are headroom against
// listings disappearing between sort and fetch.
const listingLimit = 5

// Status classifies the outcome of resolving one item.
type Status int

const (
	StatusPriced Status = iota
	StatusSkipped
	StatusFailed
)

// Outcome is the explicit per-item result of a resolution attempt. Exactly
// one of the three statuses applies; Err is set only for StatusFailed and
// Reason only for StatusSkipped.
type Outcome struct {
	Status     Status
	PriceCents int64
	Reason     string
	Err        error
}

// ListingSource is the upstream the resolver prices against.
type ListingSource interface {
	Listings(ctx context.Context, params csfloat.ListingParams) ([]csfloat.Listing, error)
}

// Resolver applies the pricing business rules to a single item.
type Resolver struct {
	source ListingSource
}

func NewResolver(source ListingSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve decides eligibility and, if eligible, resolves a single price.
// Upstream failures are captured in the Outcome, never propagated: a bad
// item must not abort its siblings.
func (r *Resolver) Resolve(ctx context.Context, item models.Item) Outcome {
	// The listings API needs a definition index plus a wear range to
	// disambiguate the skin; anything less is unpriceable, not an error.
	if item.DefIndex == 0 {
		return Outcome{Status: StatusSkipped, Reason: "missing def_index"}
	}
	if item.MinFloat == nil && item.MaxFloat == nil {
		return Outcome{Status: StatusSkipped, Reason: "missing float range"}
	}

	category := item.Category
	listings, err := r.source.Listings(ctx, csfloat.ListingParams{
		DefIndex:   item.DefIndex,
		PaintIndex: item.PaintIndex,
		MinFloat:   item.MinFloat,
		MaxFloat:   item.MaxFloat,
		Category:   &category,
		Limit:      listingLimit,
	})
	if err != nil {
		return Outcome{Status: StatusFailed, Err: fmt.Errorf("fetch listings: %w", err)}
	}

	if len(listings) == 0 {
		return Outcome{Status: StatusSkipped, Reason: "no price data"}
	}

	// Listings arrive sorted by ascending price; the first one is the
	// lowest and is taken as-is. No averaging, no outlier rejection.
	return Outcome{Status: StatusPriced, PriceCents: listings[0].Price}
}

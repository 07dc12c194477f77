package catalog

import (
	"context"
	"fmt"
)

// ListingCache stores projected product listings. Every catalog write
// invalidates the whole cache, so entries never outlive a mutation made
// through this service.
//
// Get reports the cache generation it observed, hit or miss. A listing read
// from the store after that Get must be stored with the same generation;
// Set drops it when an Invalidate happened in between.
type ListingCache interface {
	Get(ctx context.Context, key string) (views []ProductView, generation int64, ok bool, err error)
	Set(ctx context.Context, generation int64, key string, views []ProductView) error
	Invalidate(ctx context.Context) error
}

func allProductsKey(search string) string {
	return "all:" + search
}

func farmProductsKey(farmID uint64) string {
	return fmt.Sprintf("farm:%d", farmID)
}

type noopListingCache struct{}

func (noopListingCache) Get(context.Context, string) ([]ProductView, int64, bool, error) {
	return nil, 0, false, nil
}

func (noopListingCache) Set(context.Context, int64, string, []ProductView) error { return nil }

func (noopListingCache) Invalidate(context.Context) error { return nil }

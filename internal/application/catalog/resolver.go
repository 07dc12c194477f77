package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
)

// Resolver turns a (tag, id) reference into a concrete product. The same
// resolver rule validates order lines on write and re-fetches them on read.
type Resolver struct {
	stores catalog.ProductStores
}

// NewResolver creates a resolver over the given variant stores. Pass
// transaction-bound stores to resolve inside a unit of work.
func NewResolver(stores catalog.ProductStores) *Resolver {
	return &Resolver{stores: stores}
}

// Resolve parses tag and looks id up in that variant's store only
func (r *Resolver) Resolve(ctx context.Context, tag string, id uint64) (catalog.Product, error) {
	v, err := catalog.ParseVariant(tag)
	if err != nil {
		return nil, err
	}
	return r.ResolveRef(ctx, catalog.ProductRef{Variant: v, ID: id})
}

// ResolveRef resolves an already parsed reference
func (r *Resolver) ResolveRef(ctx context.Context, ref catalog.ProductRef) (catalog.Product, error) {
	switch ref.Variant {
	case catalog.VariantCrop:
		crop, err := r.stores.Crops.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, notFound(ref, err)
		}
		return crop, nil
	case catalog.VariantItem:
		item, err := r.stores.Items.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, notFound(ref, err)
		}
		return item, nil
	case catalog.VariantMachinery:
		machine, err := r.stores.Machinery.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, notFound(ref, err)
		}
		return machine, nil
	}
	return nil, shared.NewDomainErrorf("UNKNOWN_VARIANT", "Unknown product type %q", ref.Variant)
}

func notFound(ref catalog.ProductRef, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return ref.NotFound()
	}
	return fmt.Errorf("resolve %s: %w", ref, err)
}

// ListVariant returns one variant's products ordered by name
func (r *Resolver) ListVariant(ctx context.Context, v catalog.Variant, filter catalog.ProductFilter) ([]catalog.Product, error) {
	switch v {
	case catalog.VariantCrop:
		crops, err := r.stores.Crops.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		out := make([]catalog.Product, len(crops))
		for i := range crops {
			out[i] = &crops[i]
		}
		return out, nil
	case catalog.VariantItem:
		items, err := r.stores.Items.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		out := make([]catalog.Product, len(items))
		for i := range items {
			out[i] = &items[i]
		}
		return out, nil
	case catalog.VariantMachinery:
		machines, err := r.stores.Machinery.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		out := make([]catalog.Product, len(machines))
		for i := range machines {
			out[i] = &machines[i]
		}
		return out, nil
	}
	return nil, shared.NewDomainErrorf("UNKNOWN_VARIANT", "Unknown product type %q", v)
}

// ListAll concatenates crops, items and machinery. Each sub-list keeps its
// own name order; there is no ordering across variants.
func (r *Resolver) ListAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	var all []catalog.Product
	for _, v := range catalog.Variants() {
		products, err := r.ListVariant(ctx, v, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, products...)
	}
	return all, nil
}

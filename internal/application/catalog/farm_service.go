package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/agromarket/backend/internal/application/access"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/identity"
	"github.com/agromarket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FarmService handles farm operations
type FarmService struct {
	farms  catalog.FarmRepository
	users  identity.UserRepository
	stores catalog.ProductStores
	guard  *access.Guard
	cache  ListingCache
	logger *zap.Logger
}

// NewFarmService creates a new FarmService
func NewFarmService(
	farms catalog.FarmRepository,
	users identity.UserRepository,
	stores catalog.ProductStores,
	guard *access.Guard,
	cache ListingCache,
	logger *zap.Logger,
) *FarmService {
	if cache == nil {
		cache = noopListingCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmService{
		farms:  farms,
		users:  users,
		stores: stores,
		guard:  guard,
		cache:  cache,
		logger: logger,
	}
}

// List returns every farm ordered by name
func (s *FarmService) List(ctx context.Context) ([]FarmResponse, error) {
	farms, err := s.farms.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FarmResponse, len(farms))
	for i := range farms {
		out[i] = ToFarmResponse(&farms[i])
	}
	return out, nil
}

// Get returns a farm with its owner and product labels
func (s *FarmService) Get(ctx context.Context, id uint64) (*FarmDetailResponse, error) {
	farm, err := s.farms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &FarmDetailResponse{
		FarmResponse: ToFarmResponse(farm),
		Crops:        []string{},
		Items:        []string{},
		Machines:     []string{},
	}

	ownerName := ""
	owner, err := s.users.FindByID(ctx, farm.OwnerID)
	switch {
	case err == nil:
		ownerName = owner.FullName()
		resp.Owner = &OwnerSummary{
			ID:        owner.ID,
			Email:     owner.Email,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
		}
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	filter := catalog.ProductFilter{FarmID: &farm.ID}
	crops, err := s.stores.Crops.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, c := range crops {
		resp.Crops = append(resp.Crops, productLabel(c.Name, farm.Name, ownerName))
	}
	items, err := s.stores.Items.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		resp.Items = append(resp.Items, productLabel(it.Name, farm.Name, ownerName))
	}
	machines, err := s.stores.Machinery.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, m := range machines {
		resp.Machines = append(resp.Machines, productLabel(m.Name, farm.Name, ownerName))
	}
	return resp, nil
}

func productLabel(product, farm, owner string) string {
	return fmt.Sprintf("%s from farm %s of %s", product, farm, owner)
}

// Create registers a farm owned by the actor. Only business owners and
// staff may own farms.
func (s *FarmService) Create(ctx context.Context, actor *access.Actor, req CreateFarmRequest) (*FarmResponse, error) {
	if err := access.RequireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsBusinessOwner && !actor.IsStaff {
		return nil, shared.NewDomainError("FORBIDDEN", "Only business owners can register farms")
	}

	farm, err := catalog.NewFarm(actor.UserID, req.Name, req.Description, req.Address)
	if err != nil {
		return nil, err
	}
	if req.Image != "" {
		farm.SetImage(req.Image)
	}
	if err := s.farms.Save(ctx, farm); err != nil {
		return nil, err
	}

	s.logger.Info("Farm created", zap.Uint64("farm_id", farm.ID), zap.String("owner_id", actor.UserID.String()))
	resp := ToFarmResponse(farm)
	return &resp, nil
}

// Update changes a farm; owner or staff only
func (s *FarmService) Update(ctx context.Context, actor *access.Actor, id uint64, req UpdateFarmRequest) (*FarmResponse, error) {
	farm, err := s.farms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, actor, farm); err != nil {
		return nil, err
	}
	if err := farm.Update(req.Name, req.Description, req.Address); err != nil {
		return nil, err
	}
	if req.Image != nil {
		farm.SetImage(*req.Image)
	}
	if err := s.farms.Save(ctx, farm); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	resp := ToFarmResponse(farm)
	return &resp, nil
}

// Delete removes a farm and, through the repository, all of its products
func (s *FarmService) Delete(ctx context.Context, actor *access.Actor, id uint64) error {
	farm, err := s.farms.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, actor, farm); err != nil {
		return err
	}
	if err := s.farms.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.logger.Info("Farm deleted", zap.Uint64("farm_id", id))
	return nil
}

func (s *FarmService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Listing cache invalidation failed", zap.Error(err))
	}
}

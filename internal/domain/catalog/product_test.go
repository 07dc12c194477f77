package catalog

import (
	"errors"
	"testing"

	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func validInput() ProductInput {
	return ProductInput{
		Name:   "Wheat",
		Price:  price("2.5"),
		Stock:  10,
		FarmID: 1,
	}
}

func TestParseVariant(t *testing.T) {
	t.Run("accepts canonical tags", func(t *testing.T) {
		for _, tag := range []string{"crop", "item", "machinery"} {
			v, err := ParseVariant(tag)
			require.NoError(t, err)
			assert.Equal(t, tag, v.String())
		}
	})

	t.Run("rejects unknown and differently cased tags", func(t *testing.T) {
		for _, tag := range []string{"vehicle", "Crop", "ITEM", "", "machine"} {
			_, err := ParseVariant(tag)
			assert.True(t, errors.Is(err, shared.ErrUnknownVariant), tag)
		}
	})
}

func TestVariants(t *testing.T) {
	assert.Equal(t, []Variant{VariantCrop, VariantItem, VariantMachinery}, Variants())
}

func TestProductRef(t *testing.T) {
	ref := ProductRef{Variant: VariantItem, ID: 5}
	assert.Equal(t, "item#5", ref.String())

	err := ref.NotFound()
	assert.True(t, errors.Is(err, shared.ErrProductNotFound))
	assert.Contains(t, err.Message, "item")
	assert.Contains(t, err.Message, "5")
}

func TestNewCrop(t *testing.T) {
	t.Run("creates crop with valid inputs", func(t *testing.T) {
		y := 12.5
		crop, err := NewCrop(validInput(), 3, &y)
		require.NoError(t, err)

		assert.Equal(t, "Wheat", crop.Name)
		assert.Equal(t, uint64(3), crop.CategoryID)
		assert.Equal(t, 12.5, *crop.PredictedYield)
		assert.Equal(t, VariantCrop, crop.Variant())
		assert.True(t, crop.InStock())
		assert.False(t, crop.CreatedAt.IsZero())
	})

	t.Run("requires a category", func(t *testing.T) {
		_, err := NewCrop(validInput(), 0, nil)
		require.Error(t, err)
		assert.Equal(t, "INVALID_CATEGORY", err.(*shared.DomainError).Code)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		in := validInput()
		in.Name = "   "
		_, err := NewCrop(in, 1, nil)
		assert.Equal(t, "INVALID_NAME", err.(*shared.DomainError).Code)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		in := validInput()
		in.Price = price("-1")
		_, err := NewCrop(in, 1, nil)
		assert.Equal(t, "INVALID_PRICE", err.(*shared.DomainError).Code)
	})

	t.Run("accepts missing price", func(t *testing.T) {
		in := validInput()
		in.Price = nil
		crop, err := NewCrop(in, 1, nil)
		require.NoError(t, err)
		assert.Nil(t, crop.Price)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		in := validInput()
		in.Stock = -1
		_, err := NewCrop(in, 1, nil)
		assert.Equal(t, "INVALID_STOCK", err.(*shared.DomainError).Code)
	})

	t.Run("requires a farm", func(t *testing.T) {
		in := validInput()
		in.FarmID = 0
		_, err := NewCrop(in, 1, nil)
		assert.Equal(t, "INVALID_FARM", err.(*shared.DomainError).Code)
	})
}

func TestNewItemAndMachinery(t *testing.T) {
	item, err := NewItem(validInput())
	require.NoError(t, err)
	assert.True(t, item.IsNew)
	assert.Equal(t, VariantItem, item.Variant())

	producer := "John Deere"
	machine, err := NewMachinery(validInput(), &producer)
	require.NoError(t, err)
	assert.True(t, machine.IsNew)
	assert.Equal(t, "John Deere", *machine.Producer)
	assert.Equal(t, VariantMachinery, machine.Variant())
}

func TestProduct_ClosedSet(t *testing.T) {
	crop, _ := NewCrop(validInput(), 1, nil)
	item, _ := NewItem(validInput())
	machine, _ := NewMachinery(validInput(), nil)

	for _, p := range []Product{crop, item, machine} {
		p.Base().ID = 9
		ref := RefOf(p)
		assert.Equal(t, uint64(9), ref.ID)
		assert.Equal(t, p.Variant(), ref.Variant)
	}
}

func TestProductBase_Mutators(t *testing.T) {
	item, err := NewItem(validInput())
	require.NoError(t, err)

	t.Run("stock drives in_stock", func(t *testing.T) {
		require.NoError(t, item.SetStock(0))
		assert.False(t, item.InStock())
		require.NoError(t, item.SetStock(1))
		assert.True(t, item.InStock())
		assert.Error(t, item.SetStock(-5))
		assert.Equal(t, 1, item.Stock)
	})

	t.Run("price can be changed and cleared", func(t *testing.T) {
		require.NoError(t, item.SetPrice(price("3.0")))
		assert.True(t, item.Price.Equal(decimal.RequireFromString("3")))
		require.NoError(t, item.SetPrice(nil))
		assert.Nil(t, item.Price)
		assert.Error(t, item.SetPrice(price("-0.01")))
	})

	t.Run("rename validates", func(t *testing.T) {
		require.NoError(t, item.Rename("  Bucket "))
		assert.Equal(t, "Bucket", item.Name)
		assert.Error(t, item.Rename(""))
	})
}

func TestCrop_SetPredictedYield(t *testing.T) {
	crop, err := NewCrop(validInput(), 1, nil)
	require.NoError(t, err)

	y := -1.0
	assert.Error(t, crop.SetPredictedYield(&y))
	y = 4.2
	require.NoError(t, crop.SetPredictedYield(&y))
	assert.Equal(t, 4.2, *crop.PredictedYield)
	assert.Error(t, crop.SetCategory(0))
}

func TestNewFarm(t *testing.T) {
	owner := uuid.New()

	t.Run("creates farm", func(t *testing.T) {
		f, err := NewFarm(owner, "Green Acres", "Family farm", "1 Field Rd")
		require.NoError(t, err)
		assert.Equal(t, owner, f.GetOwnerID())
		assert.Equal(t, f.CreatedAt, f.UpdatedAt)
	})

	t.Run("requires owner and fields", func(t *testing.T) {
		_, err := NewFarm(uuid.Nil, "a", "b", "c")
		assert.Error(t, err)
		_, err = NewFarm(owner, "", "b", "c")
		assert.Error(t, err)
		_, err = NewFarm(owner, "a", "", "c")
		assert.Error(t, err)
		_, err = NewFarm(owner, "a", "b", " ")
		assert.Error(t, err)
	})
}

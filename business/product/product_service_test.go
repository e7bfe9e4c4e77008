//go:build !integration

package product

import (
	"context"
	"testing"

	"myShopHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products map[uint]domain.Product
	nextID   uint
	filter   domain.ProductFilter
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.filter = filter
	var out []domain.Product
	for _, p := range r.products {
		if filter.Category == "" || p.Category == filter.Category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

type recordingRemover struct {
	removed []string
}

func (r *recordingRemover) Remove(path string) error {
	r.removed = append(r.removed, path)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func TestProductService(t *testing.T) {
	ctx := context.Background()
	repo := &fakeProductRepo{products: map[uint]domain.Product{}}
	files := &recordingRemover{}
	svc := NewProductService(repo, files)

	t.Run("create applies defaults", func(t *testing.T) {
		p, err := svc.CreateProduct(ctx, ProductInput{Name: ptr("Tee"), Price: ptr(10.0), Image: "/uploads/tee.png"})
		require.NoError(t, err)

		assert.True(t, p.InStock)
		assert.Equal(t, domain.CategoryClothing, p.Category)
	})

	t.Run("create requires name price and image", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, ProductInput{Price: ptr(1.0), Image: "/uploads/x.png"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.CreateProduct(ctx, ProductInput{Name: ptr("X"), Image: "/uploads/x.png"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.CreateProduct(ctx, ProductInput{Name: ptr("X"), Price: ptr(1.0)})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("negative price and unknown category are rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, ProductInput{Name: ptr("X"), Price: ptr(-1.0), Image: "/uploads/x.png"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.CreateProduct(ctx, ProductInput{Name: ptr("X"), Price: ptr(1.0), Category: ptr("Food"), Image: "/uploads/x.png"})
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})

	t.Run("update replaces the image and keeps other fields", func(t *testing.T) {
		p, err := svc.UpdateProduct(ctx, 1, ProductInput{Price: ptr(12.5), Image: "/uploads/tee-v2.png"})
		require.NoError(t, err)

		assert.Equal(t, "Tee", p.Name)
		assert.Equal(t, 12.5, p.Price)
		assert.Equal(t, "/uploads/tee-v2.png", p.Image)
		assert.Equal(t, []string{"/uploads/tee.png"}, files.removed)
	})

	t.Run("listing filters by category", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, ProductInput{Name: ptr("Runner"), Price: ptr(40.0), Category: ptr("Shoes"), Image: "/uploads/r.png"})
		require.NoError(t, err)

		shoes, err := svc.GetAllProducts(ctx, "Shoes")
		require.NoError(t, err)
		assert.Len(t, shoes, 1)

		all, err := svc.GetAllProducts(ctx, "all")
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, domain.Category(""), repo.filter.Category)

		_, err = svc.GetAllProducts(ctx, "Food")
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})

	t.Run("delete removes the image", func(t *testing.T) {
		require.NoError(t, svc.DeleteProduct(ctx, 1))

		_, err := svc.GetProductByID(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, files.removed, "/uploads/tee-v2.png")
	})

	t.Run("categories", func(t *testing.T) {
		assert.Len(t, svc.Categories(), 8)
	})
}

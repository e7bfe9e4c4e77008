//go:build !integration

package rest

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"myShopHub/business/product"
	"myShopHub/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductService struct {
	input product.ProductInput
}

func (f *fakeProductService) GetAllProducts(_ context.Context, category string) ([]domain.Product, error) {
	if _, err := product.ParseCategory(category); err != nil {
		return nil, err
	}
	return []domain.Product{}, nil
}

func (f *fakeProductService) GetProductByID(_ context.Context, id uint) (domain.Product, error) {
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *fakeProductService) Categories() []domain.Category {
	return domain.Categories
}

func (f *fakeProductService) CreateProduct(_ context.Context, input product.ProductInput) (domain.Product, error) {
	f.input = input
	if input.Image == "" {
		return domain.Product{}, domain.ErrValidation
	}
	return domain.Product{ID: 1, Name: *input.Name, Price: *input.Price, Image: input.Image}, nil
}

func (f *fakeProductService) UpdateProduct(_ context.Context, id uint, input product.ProductInput) (domain.Product, error) {
	f.input = input
	return domain.Product{ID: id}, nil
}

func (f *fakeProductService) DeleteProduct(_ context.Context, id uint) error {
	return nil
}

type memoryStore struct {
	saved map[string][]byte
}

func (m *memoryStore) Save(_ context.Context, name string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	path := "/uploads/" + name
	m.saved[path] = data
	return path, nil
}

func multipartBody(t *testing.T, fields map[string]string, file string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != "" {
		part, err := w.CreateFormFile("image", file)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestProductHandler(t *testing.T) {
	svc := &fakeProductService{}
	store := &memoryStore{saved: map[string][]byte{}}
	h := NewProductHandler(svc, store)

	e := echo.New()
	e.GET("/api/products", h.GetAllProducts)
	e.GET("/api/products/categories", h.GetCategories)
	e.GET("/api/products/:id", h.GetProductByID)
	e.POST("/api/products", h.CreateProduct)
	e.PUT("/api/products/:id", h.UpdateProduct)

	t.Run("multipart create stores the image", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"name":     "Runner",
			"price":    "49.5",
			"category": "Shoes",
			"inStock":  "false",
		}, "runner.png")

		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []byte("png-bytes"), store.saved["/uploads/runner.png"])
		require.NotNil(t, svc.input.InStock)
		assert.False(t, *svc.input.InStock)
		assert.Equal(t, 49.5, *svc.input.Price)
		assert.Equal(t, "Shoes", *svc.input.Category)
		assert.Nil(t, svc.input.Description)
	})

	t.Run("non numeric price is a 400", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"name": "Runner", "price": "cheap"}, "")

		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid price", message(t, rec))
	})

	t.Run("json update keeps absent fields nil", func(t *testing.T) {
		rec := request(e, http.MethodPut, "/api/products/4", `{"price":12}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, svc.input.Name)
		assert.Equal(t, 12.0, *svc.input.Price)
	})

	t.Run("unknown category filter is a 400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, request(e, http.MethodGet, "/api/products?category=Food", "").Code)
		assert.Equal(t, http.StatusOK, request(e, http.MethodGet, "/api/products?category=all", "").Code)
	})

	t.Run("categories and missing product", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/api/products/categories", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Electronics")

		assert.Equal(t, http.StatusNotFound, request(e, http.MethodGet, "/api/products/77", "").Code)
	})
}

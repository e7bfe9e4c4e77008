package rest

import (
	"context"
	"myShopHub/business/product"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context, category string) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint) (domain.Product, error)
	Categories() []domain.Category
	CreateProduct(ctx context.Context, input product.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, input product.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductHandler struct {
	productService ProductService
	files          FileStore
	timeout        time.Duration
}

func NewProductHandler(productService ProductService, files FileStore) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		files:          files,
		timeout:        10 * time.Second,
	}
}

// ProductRequest is the JSON form of a product write. Multipart requests
// carry the same fields as form values plus an "image" file.
type ProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	InStock     *bool    `json:"inStock"`
	Category    *string  `json:"category"`
	Image       string   `json:"image"`
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx, c.QueryParam("category"))
	if err != nil {
		logger.Error("Failed to find all products", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.productService.Categories()))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		logger.Error("Invalid product id", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	found, err := h.productService.GetProductByID(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	input, err := h.readInput(ctx, c)
	if err != nil {
		logger.Error("Failed to read product request", err)
		return badRequest(c, err.Error())
	}

	created, err := h.productService.CreateProduct(ctx, input)
	if err != nil {
		logger.Error("Failed to create product", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	input, err := h.readInput(ctx, c)
	if err != nil {
		logger.Error("Failed to read product request", err)
		return badRequest(c, err.Error())
	}

	updated, err := h.productService.UpdateProduct(ctx, id, input)
	if err != nil {
		logger.Error("Failed to update product", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		logger.Error("Failed to delete product", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Product deleted successfully"))
}

func (h *ProductHandler) readInput(ctx context.Context, c echo.Context) (product.ProductInput, error) {
	if !isMultipart(c) {
		var req ProductRequest
		if err := c.Bind(&req); err != nil {
			return product.ProductInput{}, err
		}
		return product.ProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			InStock:     req.InStock,
			Category:    req.Category,
			Image:       req.Image,
		}, nil
	}

	var input product.ProductInput
	if v, ok := formValue(c, "name"); ok {
		input.Name = &v
	}
	if v, ok := formValue(c, "description"); ok {
		input.Description = &v
	}
	if v, ok := formValue(c, "category"); ok {
		input.Category = &v
	}
	if v, ok := formValue(c, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return product.ProductInput{}, errInvalidField("price")
		}
		input.Price = &price
	}
	if v, ok := formValue(c, "inStock"); ok {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return product.ProductInput{}, errInvalidField("inStock")
		}
		input.InStock = &inStock
	}

	image, err := saveUpload(ctx, c, h.files, "image")
	if err != nil {
		return product.ProductInput{}, err
	}
	input.Image = image

	return input, nil
}

func formValue(c echo.Context, name string) (string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return "", false
	}
	values, ok := form.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

type errInvalidField string

func (e errInvalidField) Error() string {
	return "invalid " + string(e)
}

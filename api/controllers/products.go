package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	"github.com/rahulvarma/shopsphere-backend/internal/catalog"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
)

type productResponse struct {
	ID             string                `json:"id"`
	SKU            string                `json:"sku"`
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	Price          decimal.Decimal       `json:"price"`
	CompareAtPrice *decimal.Decimal      `json:"compare_at_price,omitempty"`
	Images         []string              `json:"images,omitempty"`
	StockQty       int                   `json:"stock_qty"`
	Category       *categoryResponse     `json:"category,omitempty"`
	Manufacturer   *manufacturerResponse `json:"manufacturer,omitempty"`
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type manufacturerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Country string `json:"country,omitempty"`
}

type pagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}

func newProductResponse(product *models.Product) productResponse {
	resp := productResponse{
		ID:             product.ID.String(),
		SKU:            product.SKU,
		Title:          product.Title,
		Description:    product.Description,
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		Images:         product.Images,
		StockQty:       product.StockQty,
	}
	if product.Category != nil {
		c := newCategoryResponse(product.Category)
		resp.Category = &c
	}
	if product.Manufacturer != nil {
		m := newManufacturerResponse(product.Manufacturer)
		resp.Manufacturer = &m
	}
	return resp
}

func newCategoryResponse(category *models.Category) categoryResponse {
	return categoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}
}

func newManufacturerResponse(manufacturer *models.Manufacturer) manufacturerResponse {
	return manufacturerResponse{
		ID:      manufacturer.ID.String(),
		Name:    manufacturer.Name,
		Slug:    manufacturer.Slug,
		Country: manufacturer.Country,
	}
}

func productFilterFromQuery(r *http.Request) catalog.ProductFilter {
	query := r.URL.Query()
	filter := catalog.ProductFilter{Search: query.Get("q")}
	if raw := query.Get("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = &id
		}
	}
	if raw := query.Get("manufacturer_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.ManufacturerID = &id
		}
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.PerPage, _ = strconv.Atoi(query.Get("per_page"))
	return filter
}

// ProductList returns active products matching the query filters.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, total, err := svc.ListProducts(r.Context(), productFilterFromQuery(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for i := range products {
			out = append(out, newProductResponse(&products[i]))
		}
		responses.WriteSuccess(w, pagedResponse{Items: out, Total: total})
	}
}

// ProductDetail returns one product by id.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// CategoryList returns all categories.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]categoryResponse, 0, len(categories))
		for i := range categories {
			out = append(out, newCategoryResponse(&categories[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ManufacturerList returns all manufacturers.
func ManufacturerList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manufacturers, err := svc.ListManufacturers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]manufacturerResponse, 0, len(manufacturers))
		for i := range manufacturers {
			out = append(out, newManufacturerResponse(&manufacturers[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

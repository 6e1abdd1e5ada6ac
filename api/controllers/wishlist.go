package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	"github.com/rahulvarma/shopsphere-backend/api/validators"
	wishlistsvc "github.com/rahulvarma/shopsphere-backend/internal/wishlist"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
)

type wishlistAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type wishlistItemResponse struct {
	ProductID string           `json:"product_id"`
	Product   *productResponse `json:"product,omitempty"`
	AddedAt   time.Time        `json:"added_at"`
}

func newWishlistItemResponse(item *models.WishlistItem) wishlistItemResponse {
	resp := wishlistItemResponse{
		ProductID: item.ProductID.String(),
		AddedAt:   item.CreatedAt,
	}
	if item.Product != nil {
		p := newProductResponse(item.Product)
		resp.Product = &p
	}
	return resp
}

// WishlistList returns the caller's wishlist.
func WishlistList(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]wishlistItemResponse, 0, len(items))
		for i := range items {
			out = append(out, newWishlistItemResponse(&items[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// WishlistAdd saves a product to the wishlist; duplicates are ignored.
func WishlistAdd(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload wishlistAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Add(r.Context(), userID, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "added"})
	}
}

// WishlistRemove drops a product from the wishlist.
func WishlistRemove(svc wishlistsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), userID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

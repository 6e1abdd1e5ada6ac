package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	discountsvc "github.com/rahulvarma/shopsphere-backend/internal/discounts"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
)

type discountResponse struct {
	Code        string           `json:"code"`
	Type        string           `json:"type"`
	Kind        string           `json:"kind"`
	Value       decimal.Decimal  `json:"value"`
	MinPurchase decimal.Decimal  `json:"min_purchase"`
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
	BuyQty      *int             `json:"buy_qty,omitempty"`
	GetQty      *int             `json:"get_qty,omitempty"`
	IsActive    bool             `json:"is_active"`
	ValidFrom   time.Time        `json:"valid_from"`
	ValidUntil  time.Time        `json:"valid_until"`
}

func newDiscountResponse(discount *models.Discount) discountResponse {
	return discountResponse{
		Code:        discount.Code,
		Type:        discount.Type.String(),
		Kind:        discount.Kind.String(),
		Value:       discount.Value,
		MinPurchase: discount.MinPurchase,
		MaxDiscount: discount.MaxDiscount,
		BuyQty:      discount.BuyQty,
		GetQty:      discount.GetQty,
		IsActive:    discount.IsActive,
		ValidFrom:   discount.ValidFrom,
		ValidUntil:  discount.ValidUntil,
	}
}

// DiscountByCode resolves a coupon code before application.
func DiscountByCode(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discount, err := svc.GetByCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDiscountResponse(discount))
	}
}

package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	"github.com/rahulvarma/shopsphere-backend/api/validators"
	checkoutsvc "github.com/rahulvarma/shopsphere-backend/internal/checkout"
	orderssvc "github.com/rahulvarma/shopsphere-backend/internal/orders"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
	"github.com/rahulvarma/shopsphere-backend/pkg/types"
)

type createOrderRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Note          *string `json:"note"`
}

type orderItemResponse struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	GrandTotal      decimal.Decimal     `json:"grand_total"`
	DiscountCode    *string             `json:"discount_code,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
	ShippingAddress types.Address       `json:"shipping_address"`
	BillingAddress  types.Address       `json:"billing_address"`
	Note            *string             `json:"note,omitempty"`
	Items           []orderItemResponse `json:"items"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:              order.ID.String(),
		Status:          order.Status.String(),
		Subtotal:        order.Subtotal,
		DiscountAmount:  order.DiscountAmount,
		ShippingFee:     order.ShippingFee,
		GrandTotal:      order.GrandTotal,
		DiscountCode:    order.DiscountCode,
		PaymentMethod:   order.PaymentMethod.String(),
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Note:            order.Note,
		PaidAt:          order.PaidAt,
		CancelledAt:     order.CancelledAt,
		CreatedAt:       order.CreatedAt,
	}
	resp.Items = make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: item.ProductID.String(),
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return resp
}

// OrderCreate runs the checkout preconditions and snapshots the cart into an order.
func OrderCreate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported payment method"))
			return
		}

		order, err := svc.CreateOrder(r.Context(), userID, checkoutsvc.CreateOrderInput{
			PaymentMethod: method,
			Note:          payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// OrderList returns the caller's orders, newest first.
func OrderList(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(records))
		for i := range records {
			out = append(out, newOrderResponse(&records[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// OrderDetail returns one order.
func OrderDetail(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderCancel cancels a pending or paid order before shipment.
func OrderCancel(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

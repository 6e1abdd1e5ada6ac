package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	"github.com/rahulvarma/shopsphere-backend/api/validators"
	checkoutsvc "github.com/rahulvarma/shopsphere-backend/internal/checkout"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
)

type initiatePaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// paymentCallbackRequest carries the signed result the widget posts back. The
// three fields are checked by the sequencer, not the validator, so an
// incomplete callback maps to the payment-integrity error rather than a
// generic validation failure.
type paymentCallbackRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type cancelPaymentRequest struct {
	RazorpayOrderID string `json:"razorpay_order_id" validate:"required"`
	Reason          string `json:"reason"`
}

// PaymentInitiate creates the provider order and returns widget parameters.
func PaymentInitiate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload initiatePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		init, err := svc.InitiatePayment(r.Context(), userID, payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, init)
	}
}

// PaymentSuccess settles the signed payment callback.
func PaymentSuccess(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentCallbackRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmPayment(r.Context(), userID, checkoutsvc.PaymentCallback{
			ProviderOrderID: payload.RazorpayOrderID,
			PaymentID:       payload.RazorpayPaymentID,
			Signature:       payload.RazorpaySignature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// PaymentCancel records a widget dismissal; the order stays pending.
func PaymentCancel(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CancelPayment(r.Context(), userID, payload.RazorpayOrderID, payload.Reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

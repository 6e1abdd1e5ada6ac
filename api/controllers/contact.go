package controllers

import (
	"net/http"

	"github.com/rahulvarma/shopsphere-backend/api/responses"
	"github.com/rahulvarma/shopsphere-backend/api/validators"
	contactsvc "github.com/rahulvarma/shopsphere-backend/internal/contact"
	"github.com/rahulvarma/shopsphere-backend/pkg/logger"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// ContactSubmit stores a contact-form submission.
func ContactSubmit(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Submit(r.Context(), contactsvc.SubmitInput{
			Name:    payload.Name,
			Email:   payload.Email,
			Subject: payload.Subject,
			Message: payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{
			"id":     message.ID.String(),
			"status": "received",
		})
	}
}

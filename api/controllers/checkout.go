package controllers

import (
	"net/http"

	"github.com/kiranapos/backend/api/middleware"
	"github.com/kiranapos/backend/api/responses"
	"github.com/kiranapos/backend/api/validators"
	"github.com/kiranapos/backend/internal/checkout"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
	"github.com/kiranapos/backend/pkg/logger"
)

// Checkout commits the session's cart into a durable sale and returns the
// receipt with the invoice document.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		operator := middleware.UsernameFromContext(r.Context())
		sessionID := middleware.SessionJTIFromContext(r.Context())
		if operator == "" || sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkout.CustomerSelection
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Execute(r.Context(), operator, sessionID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

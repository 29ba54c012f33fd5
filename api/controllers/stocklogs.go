package controllers

import (
	"net/http"
	"strings"

	"github.com/kiranapos/backend/api/responses"
	"github.com/kiranapos/backend/api/validators"
	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/pkg/enums"
	"github.com/kiranapos/backend/pkg/logger"
)

// StockLogList exposes the stock audit trail with optional filters.
func StockLogList(svc stocklog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := stocklog.ListFilter{
			ProductID:  strings.TrimSpace(r.URL.Query().Get("product_id")),
			ChangeType: enums.StockChangeType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("change_type")))),
			From:       from,
			To:         to,
			Limit:      limit,
		}

		entries, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

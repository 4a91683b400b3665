package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/velocitymotors/dealerdesk-backend/api/responses"
	"github.com/velocitymotors/dealerdesk-backend/internal/demand"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
)

// DemandMismatchReport compares color demand against supply for a month.
func DemandMismatchReport(svc demand.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "demand service unavailable"))
			return
		}

		params := demand.ReportParams{
			Month: strings.TrimSpace(r.URL.Query().Get("month")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("variant_id")); raw != "" {
			variantID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id"))
				return
			}
			params.VariantID = &variantID
		}

		report, err := svc.MismatchReport(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

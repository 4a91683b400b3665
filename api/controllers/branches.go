package controllers

import (
	"context"
	"net/http"

	"github.com/velocitymotors/dealerdesk-backend/api/responses"
	"github.com/velocitymotors/dealerdesk-backend/api/validators"
	"github.com/velocitymotors/dealerdesk-backend/internal/branches"
	"github.com/velocitymotors/dealerdesk-backend/pkg/db/models"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
)

// BranchStore is the branch persistence surface the controllers need.
type BranchStore interface {
	Create(ctx context.Context, dto branches.CreateBranchDTO) (*models.Branch, error)
	List(ctx context.Context) ([]models.Branch, error)
}

type createBranchRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	City  string `json:"city" validate:"required,min=2"`
	Phone string `json:"phone"`
}

// CreateBranch opens a new dealership location. Admin only.
func CreateBranch(store BranchStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "branch store unavailable"))
			return
		}

		var req createBranchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto := branches.CreateBranchDTO{
			Name: validators.SanitizeString(req.Name, 120),
			City: validators.SanitizeString(req.City, 120),
		}
		if phone := validators.SanitizeString(req.Phone, 32); phone != "" {
			dto.Phone = &phone
		}

		branch, err := store.Create(r.Context(), dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create branch"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, branch)
	}
}

// ListBranches returns every branch ordered by name.
func ListBranches(store BranchStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "branch store unavailable"))
			return
		}

		items, err := store.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list branches"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velocitymotors/dealerdesk-backend/api/middleware"
	"github.com/velocitymotors/dealerdesk-backend/api/responses"
	"github.com/velocitymotors/dealerdesk-backend/api/validators"
	"github.com/velocitymotors/dealerdesk-backend/internal/discounts"
	"github.com/velocitymotors/dealerdesk-backend/pkg/enums"
	pkgerrors "github.com/velocitymotors/dealerdesk-backend/pkg/errors"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
)

const maxCommentLen = 2000

type submitDiscountRequest struct {
	OrderID           string          `json:"order_id" validate:"required,uuid"`
	OriginalPrice     decimal.Decimal `json:"original_price" validate:"required"`
	CampaignDiscount  decimal.Decimal `json:"campaign_discount"`
	RequestedDiscount decimal.Decimal `json:"requested_discount" validate:"required"`
	Justification     string          `json:"justification" validate:"required"`
	BrandCode         string          `json:"brand_code"`
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SubmitDiscount files a discount request for an order on behalf of the actor.
func SubmitDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req submitDiscountRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		result, err := svc.Submit(r.Context(), discounts.SubmitInput{
			OrderID:           orderID,
			OriginalPrice:     req.OriginalPrice,
			CampaignDiscount:  req.CampaignDiscount,
			RequestedDiscount: req.RequestedDiscount,
			Justification:     validators.SanitizeString(req.Justification, maxCommentLen),
			RequestedBy:       actorID,
			BrandCode:         validators.SanitizeString(req.BrandCode, 32),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ApproveDiscount records the actor's approval at their level.
func ApproveDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		requestID, actorID, role, err := decisionActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req decisionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := discounts.ApproveInput{
			RequestID: requestID,
			ActorID:   actorID,
			ActorRole: role,
		}
		if comment := validators.SanitizeString(req.Comment, maxCommentLen); comment != "" {
			input.Comment = &comment
		}

		result, err := svc.Approve(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RejectDiscount records the actor's rejection with its mandatory reason.
func RejectDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		requestID, actorID, role, err := decisionActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rejectRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Reject(r.Context(), discounts.RejectInput{
			RequestID: requestID,
			ActorID:   actorID,
			ActorRole: role,
			Reason:    validators.SanitizeString(req.Reason, maxCommentLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetDiscount returns a single discount request.
func GetDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		request, err := svc.Get(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// ListOrderDiscounts returns the discount history for one order.
func ListOrderDiscounts(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		requests, err := svc.ListByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": requests})
	}
}

func actorFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return actorID, nil
}

func decisionActor(r *http.Request) (requestID, actorID uuid.UUID, role enums.StaffRole, err error) {
	requestID, err = uuid.Parse(chi.URLParam(r, "requestId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id")
	}
	actorID, err = actorFromContext(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", err
	}
	role, err = enums.ParseStaffRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown actor role")
	}
	return requestID, actorID, role, nil
}

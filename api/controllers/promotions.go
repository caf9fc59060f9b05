package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/api/responses"
	"github.com/pharmadist/pricing-engine/api/validators"
	"github.com/pharmadist/pricing-engine/internal/promotions"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
	"github.com/pharmadist/pricing-engine/pkg/logger"
)

type validatePromotionRequest struct {
	Code       string          `json:"code" validate:"required,min=1,max=64"`
	CustomerID string          `json:"customer_id" validate:"required,uuid"`
	OrderTotal decimal.Decimal `json:"order_total"`
	AsOf       string          `json:"as_of" validate:"omitempty"`
}

type applyPromotionRequest struct {
	PromotionID string          `json:"promotion_id" validate:"required,uuid"`
	CustomerID  string          `json:"customer_id" validate:"required,uuid"`
	OrderID     string          `json:"order_id" validate:"required,uuid"`
	OrderTotal  decimal.Decimal `json:"order_total"`
}

type validatePromotionResponse struct {
	Valid             bool            `json:"valid"`
	ErrorKind         string          `json:"error_kind,omitempty"`
	PromotionID       *uuid.UUID      `json:"promotion_id,omitempty"`
	PromotionCode     string          `json:"promotion_code,omitempty"`
	EstimatedDiscount decimal.Decimal `json:"estimated_discount"`
}

type applyPromotionResponse struct {
	UsageID        uuid.UUID       `json:"usage_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AlreadyApplied bool            `json:"already_applied"`
}

// ValidatePromotion previews whether a code applies to an order total.
func ValidatePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		var payload validatePromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := validators.ParseUUID("customer_id", payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.OrderTotal.Sign() < 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_total must not be negative"))
			return
		}

		asOf := time.Now()
		if payload.AsOf != "" {
			asOf, err = time.Parse(time.RFC3339, payload.AsOf)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "as_of must be RFC3339"))
				return
			}
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithPromotionCode(logg.WithCustomerID(ctx, customerID.String()), payload.Code)
		}

		result, err := svc.Validate(ctx, payload.Code, customerID, payload.OrderTotal, asOf)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := validatePromotionResponse{
			Valid:             result.Valid,
			EstimatedDiscount: result.EstimatedDiscount,
		}
		if result.ErrorKind != nil {
			resp.ErrorKind = result.ErrorKind.String()
		}
		if result.Valid && result.Promotion != nil {
			resp.PromotionID = &result.Promotion.ID
			resp.PromotionCode = result.Promotion.Code
		}
		responses.WriteSuccess(w, resp)
	}
}

// ApplyPromotion commits one usage of a promotion against a confirmed order.
func ApplyPromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		var payload applyPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		promotionID, err := validators.ParseUUID("promotion_id", payload.PromotionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := validators.ParseUUID("customer_id", payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUID("order_id", payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, customerID.String())
		}

		applied, err := svc.Apply(ctx, promotions.ApplyInput{
			PromotionID: promotionID,
			CustomerID:  customerID,
			OrderID:     orderID,
			OrderTotal:  payload.OrderTotal,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status := http.StatusCreated
		if applied.AlreadyApplied {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, applyPromotionResponse{
			UsageID:        applied.UsageID,
			DiscountAmount: applied.DiscountAmount,
			AlreadyApplied: applied.AlreadyApplied,
		})
	}
}

package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/api/responses"
	"github.com/pharmadist/pricing-engine/api/validators"
	"github.com/pharmadist/pricing-engine/internal/pricing"
	pkgenums "github.com/pharmadist/pricing-engine/pkg/enums"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
	"github.com/pharmadist/pricing-engine/pkg/logger"
)

type calculateRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	CustomerID    string `json:"customer_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	PromotionCode string `json:"promotion_code"`
	PriceType     string `json:"price_type" validate:"required,oneof=standard contract tender"`
	RegionID      string `json:"region_id" validate:"omitempty,uuid"`
	AsOf          string `json:"as_of" validate:"omitempty"`
}

type batchLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	PriceType string `json:"price_type" validate:"required,oneof=standard contract tender"`
	RegionID  string `json:"region_id" validate:"omitempty,uuid"`
}

type calculateBatchRequest struct {
	CustomerID    string             `json:"customer_id" validate:"required,uuid"`
	PromotionCode string             `json:"promotion_code"`
	Lines         []batchLineRequest `json:"lines" validate:"required,min=1,max=100,dive"`
}

type breakdownResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Quantity   int       `json:"quantity"`

	BasePrice   decimal.Decimal `json:"base_price"`
	PriceSource string          `json:"price_source"`
	OverrideID  *uuid.UUID      `json:"override_id,omitempty"`

	TierDiscountPercent decimal.Decimal `json:"tier_discount_percent"`
	TierDiscountAmount  decimal.Decimal `json:"tier_discount_amount"`

	RuleID              *uuid.UUID      `json:"rule_id,omitempty"`
	RuleDiscountPercent decimal.Decimal `json:"rule_discount_percent"`
	RuleDiscountAmount  decimal.Decimal `json:"rule_discount_amount"`

	PromotionCode            string          `json:"promotion_code,omitempty"`
	PromotionDiscountPercent decimal.Decimal `json:"promotion_discount_percent"`
	PromotionDiscountAmount  decimal.Decimal `json:"promotion_discount_amount"`
	PromotionError           string          `json:"promotion_error,omitempty"`
	PromotionSkipReason      string          `json:"promotion_skip_reason,omitempty"`

	FinalUnitPrice         decimal.Decimal `json:"final_unit_price"`
	LineTotal              decimal.Decimal `json:"line_total"`
	TotalAfterPromotion    decimal.Decimal `json:"total_after_promotion"`
	OverallDiscountPercent decimal.Decimal `json:"overall_discount_percent"`
}

func newBreakdownResponse(b *pricing.Breakdown) breakdownResponse {
	resp := breakdownResponse{
		ProductID:                b.ProductID,
		CustomerID:               b.CustomerID,
		Quantity:                 b.Quantity,
		BasePrice:                b.BasePrice,
		PriceSource:              string(b.PriceSource),
		OverrideID:               b.OverrideID,
		TierDiscountPercent:      b.TierDiscountPercent,
		TierDiscountAmount:       b.TierDiscountAmount,
		RuleID:                   b.RuleID,
		RuleDiscountPercent:      b.RuleDiscountPercent,
		RuleDiscountAmount:       b.RuleDiscountAmount,
		PromotionCode:            b.PromotionCode,
		PromotionDiscountPercent: b.PromotionDiscountPercent,
		PromotionDiscountAmount:  b.PromotionDiscountAmount,
		PromotionSkipReason:      b.PromotionSkipReason,
		FinalUnitPrice:           b.FinalUnitPrice,
		LineTotal:                b.LineTotal,
		TotalAfterPromotion:      b.TotalAfterPromotion,
		OverallDiscountPercent:   b.OverallDiscountPercent,
	}
	if b.PromotionError != nil {
		resp.PromotionError = b.PromotionError.String()
	}
	return resp
}

// CalculatePrice prices a single product line for a customer.
func CalculatePrice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload calculateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := toCalculateInput(payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.Calculate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBreakdownResponse(breakdown))
	}
}

// CalculateBatch prices several lines in one call, each independently.
func CalculateBatch(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload calculateBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := validators.ParseUUID("customer_id", payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]pricing.BatchLine, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			productID, err := validators.ParseUUID("lines.product_id", line.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			regionID, err := validators.ParseOptionalUUID("lines.region_id", line.RegionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			priceType, err := pkgenums.ParsePriceType(line.PriceType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price type"))
				return
			}
			lines = append(lines, pricing.BatchLine{
				ProductID: productID,
				Quantity:  line.Quantity,
				PriceType: priceType,
				RegionID:  regionID,
			})
		}

		breakdowns, err := svc.CalculateBatch(r.Context(), customerID, payload.PromotionCode, lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]breakdownResponse, 0, len(breakdowns))
		for _, breakdown := range breakdowns {
			out = append(out, newBreakdownResponse(breakdown))
		}
		responses.WriteSuccess(w, map[string]any{"lines": out})
	}
}

func toCalculateInput(payload calculateRequest) (pricing.CalculateInput, error) {
	var input pricing.CalculateInput

	productID, err := validators.ParseUUID("product_id", payload.ProductID)
	if err != nil {
		return input, err
	}
	customerID, err := validators.ParseUUID("customer_id", payload.CustomerID)
	if err != nil {
		return input, err
	}
	regionID, err := validators.ParseOptionalUUID("region_id", payload.RegionID)
	if err != nil {
		return input, err
	}
	priceType, err := pkgenums.ParsePriceType(payload.PriceType)
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price type")
	}

	input = pricing.CalculateInput{
		ProductID:     productID,
		CustomerID:    customerID,
		Quantity:      payload.Quantity,
		PromotionCode: payload.PromotionCode,
		PriceType:     priceType,
		RegionID:      regionID,
	}

	if payload.AsOf != "" {
		asOf, err := time.Parse(time.RFC3339, payload.AsOf)
		if err != nil {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "as_of must be RFC3339").WithDetails(map[string]any{"field": "as_of"})
		}
		input.AsOf = asOf
	}
	return input, nil
}

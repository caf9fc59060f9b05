package promotions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharmadist/pricing-engine/internal/customers"
	"github.com/pharmadist/pricing-engine/pkg/config"
	"github.com/pharmadist/pricing-engine/pkg/db"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
	"github.com/pharmadist/pricing-engine/pkg/metrics"
)

// ValidationResult is the outcome of checking a promotion code. When Valid is
// false, ErrorKind holds exactly one failure kind; the checks short-circuit.
type ValidationResult struct {
	Valid             bool
	ErrorKind         *enums.PromotionErrorKind
	Promotion         *models.Promotion
	EstimatedDiscount decimal.Decimal
}

// ApplyInput identifies one application of a promotion to a confirmed order.
type ApplyInput struct {
	PromotionID uuid.UUID
	CustomerID  uuid.UUID
	OrderID     uuid.UUID
	OrderTotal  decimal.Decimal
}

// AppliedPromotion reports a committed (or replayed) application.
type AppliedPromotion struct {
	UsageID        uuid.UUID
	DiscountAmount decimal.Decimal
	AlreadyApplied bool
}

// Service validates promotion codes and applies them at order confirmation.
type Service interface {
	Validate(ctx context.Context, code string, customerID uuid.UUID, orderTotal decimal.Decimal, asOf time.Time) (*ValidationResult, error)
	Apply(ctx context.Context, input ApplyInput) (*AppliedPromotion, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo         Repository
	customersSvc customers.Service
	tx           txRunner
	maxRetries   int
	metrics      *metrics.PricingMetrics
}

var _ txRunner = (*db.Client)(nil)

// NewService wires a promotion service. The metrics collector is optional.
func NewService(repo Repository, customersSvc customers.Service, tx txRunner, cfg config.PromotionsConfig, m *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if customersSvc == nil {
		return nil, fmt.Errorf("customer service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	retries := cfg.ApplyMaxRetries
	if retries < 1 {
		retries = 1
	}
	return &service{
		repo:         repo,
		customersSvc: customersSvc,
		tx:           tx,
		maxRetries:   retries,
		metrics:      m,
	}, nil
}

// Validate runs the short-circuiting check chain and, on success, estimates
// the discount for checkout preview. Never mutates state, never caches: the
// same row can flip validity purely from clock movement or cap consumption.
func (s *service) Validate(ctx context.Context, code string, customerID uuid.UUID, orderTotal decimal.Decimal, asOf time.Time) (*ValidationResult, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion code required")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	promotion, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return s.invalid(enums.PromotionErrorCodeNotFound, nil), nil
		}
		return nil, err
	}

	result, err := s.check(ctx, promotion, customerID, orderTotal, asOf)
	if err != nil {
		return nil, err
	}
	if result.Valid {
		result.EstimatedDiscount = DiscountAmount(promotion, orderTotal)
		s.metrics.IncPromotionValidated("valid")
	} else {
		s.metrics.IncPromotionValidated(result.ErrorKind.String())
	}
	return result, nil
}

// check evaluates every gate except code lookup, in the canonical order.
// Apply runs the same chain inside its transaction.
func (s *service) check(ctx context.Context, promotion *models.Promotion, customerID uuid.UUID, orderTotal decimal.Decimal, asOf time.Time) (*ValidationResult, error) {
	if !promotion.Active {
		return s.invalid(enums.PromotionErrorInactive, promotion), nil
	}
	if promotion.StartDate.After(asOf) {
		return s.invalid(enums.PromotionErrorNotYetStarted, promotion), nil
	}
	if promotion.EndDate.Before(asOf) {
		return s.invalid(enums.PromotionErrorExpired, promotion), nil
	}
	if promotion.MaxUsageCount != nil && promotion.CurrentUsageCount >= *promotion.MaxUsageCount {
		return s.invalid(enums.PromotionErrorUsageCapReached, promotion), nil
	}
	if promotion.MaxUsagePerCustomer != nil {
		used, err := s.repo.CountCustomerUsage(ctx, promotion.ID, customerID)
		if err != nil {
			return nil, err
		}
		if used >= int64(*promotion.MaxUsagePerCustomer) {
			return s.invalid(enums.PromotionErrorPerCustomerCapReached, promotion), nil
		}
	}
	if promotion.MinimumOrderAmount != nil && orderTotal.LessThan(*promotion.MinimumOrderAmount) {
		return s.invalid(enums.PromotionErrorMinimumOrderNotMet, promotion), nil
	}

	eligible, err := s.customerEligible(ctx, promotion, customerID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return s.invalid(enums.PromotionErrorCustomerNotEligible, promotion), nil
	}

	return &ValidationResult{Valid: true, Promotion: promotion}, nil
}

// customerEligible checks targeting: a targeted promotion matches its customer
// directly or, with ApplyToChildren, any direct child of the target. Tier and
// type constraints apply on top when set.
func (s *service) customerEligible(ctx context.Context, promotion *models.Promotion, customerID uuid.UUID) (bool, error) {
	if promotion.TargetCustomerID != nil && *promotion.TargetCustomerID != customerID {
		if !promotion.ApplyToChildren {
			return false, nil
		}
		isChild, err := s.customersSvc.IsChildOf(ctx, customerID, *promotion.TargetCustomerID)
		if err != nil {
			return false, err
		}
		if !isChild {
			return false, nil
		}
	}
	if promotion.RequiredTier == nil && promotion.RequiredType == nil {
		return true, nil
	}
	customer, err := s.customersSvc.GetCustomer(ctx, customerID)
	if err != nil {
		return false, err
	}
	if promotion.RequiredTier != nil && *promotion.RequiredTier != customer.Tier {
		return false, nil
	}
	if promotion.RequiredType != nil && *promotion.RequiredType != customer.Type {
		return false, nil
	}
	return true, nil
}

func (s *service) invalid(kind enums.PromotionErrorKind, promotion *models.Promotion) *ValidationResult {
	return &ValidationResult{
		Valid:             false,
		ErrorKind:         &kind,
		Promotion:         promotion,
		EstimatedDiscount: decimal.Zero,
	}
}

// conflictErr signals a lost optimistic race inside an Apply transaction. It
// forces a rollback and a fresh attempt from the top of the retry loop.
type conflictErr struct{}

func (conflictErr) Error() string { return "promotion version conflict" }

// Apply commits one usage of the promotion: re-validates at the instant of
// application, inserts the ledger row, and bumps the counter under the
// optimistic version guard, all in one transaction. Replaying the same
// (promotion, order) pair returns the recorded amount without a second insert.
// Once committed, the usage is final.
func (s *service) Apply(ctx context.Context, input ApplyInput) (*AppliedPromotion, error) {
	if input.PromotionID == uuid.Nil || input.CustomerID == uuid.Nil || input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion, customer and order ids required")
	}
	if input.OrderTotal.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must not be negative")
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		applied, err := s.tryApply(ctx, input)
		if err == nil {
			s.metrics.IncPromotionApplied("success")
			return applied, nil
		}
		if _, conflict := err.(conflictErr); conflict {
			s.metrics.IncApplyRetry()
			continue
		}
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeCapacity {
			s.metrics.IncPromotionApplied("capacity_exhausted")
		} else {
			s.metrics.IncPromotionApplied("error")
		}
		return nil, err
	}

	s.metrics.IncPromotionApplied("retries_exhausted")
	return nil, pkgerrors.New(pkgerrors.CodeCapacity, "promotion application kept conflicting with concurrent usage").
		WithDetails(map[string]any{"promotion_id": input.PromotionID, "attempts": s.maxRetries})
}

func (s *service) tryApply(ctx context.Context, input ApplyInput) (*AppliedPromotion, error) {
	var applied *AppliedPromotion
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		promotion, err := repo.FindByID(ctx, input.PromotionID)
		if err != nil {
			return err
		}

		existing, err := repo.FindUsageByOrder(ctx, promotion.ID, input.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			applied = &AppliedPromotion{
				UsageID:        existing.ID,
				DiscountAmount: existing.DiscountApplied,
				AlreadyApplied: true,
			}
			return nil
		}

		// Preview results are stale by definition: capacity may have been
		// consumed and the clock has moved, so the full chain runs again here.
		result, err := s.checkWithRepo(ctx, repo, promotion, input.CustomerID, input.OrderTotal, time.Now())
		if err != nil {
			return err
		}
		if !result.Valid {
			return applyRejection(*result.ErrorKind, promotion)
		}

		discount := DiscountAmount(promotion, input.OrderTotal)

		bumped, err := repo.IncrementUsage(ctx, promotion.ID, promotion.Version)
		if err != nil {
			return err
		}
		if !bumped {
			// Zero rows means either the version moved under us or the cap
			// predicate failed. Re-read to tell the two apart.
			fresh, err := repo.FindByID(ctx, promotion.ID)
			if err != nil {
				return err
			}
			if fresh.MaxUsageCount != nil && fresh.CurrentUsageCount >= *fresh.MaxUsageCount {
				return pkgerrors.New(pkgerrors.CodeCapacity, "promotion usage cap reached").
					WithDetails(map[string]any{"promotion_id": promotion.ID})
			}
			return conflictErr{}
		}

		usage := &models.PromotionUsage{
			PromotionID:     promotion.ID,
			CustomerID:      input.CustomerID,
			OrderID:         input.OrderID,
			DiscountApplied: discount,
		}
		if err := repo.CreateUsage(ctx, usage); err != nil {
			if db.IsUniqueViolation(err, "idx_promotion_usages_order") {
				return conflictErr{}
			}
			return err
		}

		applied = &AppliedPromotion{UsageID: usage.ID, DiscountAmount: discount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// checkWithRepo is check bound to a transactional repository so the ledger
// count reads the same snapshot the increment will write against.
func (s *service) checkWithRepo(ctx context.Context, repo Repository, promotion *models.Promotion, customerID uuid.UUID, orderTotal decimal.Decimal, asOf time.Time) (*ValidationResult, error) {
	bound := *s
	bound.repo = repo
	return bound.check(ctx, promotion, customerID, orderTotal, asOf)
}

// applyRejection maps a re-validation failure inside Apply to a typed error.
func applyRejection(kind enums.PromotionErrorKind, promotion *models.Promotion) error {
	code := pkgerrors.CodeValidation
	switch kind {
	case enums.PromotionErrorUsageCapReached, enums.PromotionErrorPerCustomerCapReached:
		code = pkgerrors.CodeCapacity
	}
	return pkgerrors.New(code, "promotion no longer applicable").
		WithDetails(map[string]any{"promotion_id": promotion.ID, "reason": kind.String()})
}

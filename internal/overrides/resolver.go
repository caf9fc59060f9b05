package overrides

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/internal/catalog"
	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
)

// PriceSource identifies where a resolved base price came from.
type PriceSource string

const (
	SourceCatalog  PriceSource = "catalog"
	SourceOverride PriceSource = "override"
)

// ResolveInput carries everything needed to resolve one base price.
type ResolveInput struct {
	ProductID  uuid.UUID
	CustomerID uuid.UUID
	PriceType  enums.PriceType
	RegionID   *uuid.UUID
	AsOf       time.Time
}

// ResolvedPrice is the outcome of base-price resolution.
type ResolvedPrice struct {
	Price      decimal.Decimal
	Source     PriceSource
	OverrideID *uuid.UUID
}

// Resolver resolves the effective base unit price from the layered override
// table, falling back to the catalog price when nothing matches. Pure read.
type Resolver interface {
	ResolveBasePrice(ctx context.Context, input ResolveInput) (*ResolvedPrice, error)
}

type resolver struct {
	repo       Repository
	catalogSvc catalog.Service
}

// NewResolver wires an override resolver with its repository and catalog fallback.
func NewResolver(repo Repository, catalogSvc catalog.Service) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("override repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &resolver{repo: repo, catalogSvc: catalogSvc}, nil
}

func (r *resolver) ResolveBasePrice(ctx context.Context, input ResolveInput) (*ResolvedPrice, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if !input.PriceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid price type")
	}

	// Unknown products are a precondition failure, so the catalog lookup runs
	// first even though its price is only needed on the fallback path.
	product, err := r.catalogSvc.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	candidates, err := r.repo.FindCandidates(ctx, input.ProductID, input.PriceType, input.AsOf)
	if err != nil {
		return nil, err
	}

	matched := candidates[:0]
	for _, candidate := range candidates {
		if matchesAudience(candidate, input.CustomerID, input.RegionID) {
			matched = append(matched, candidate)
		}
	}

	if len(matched) == 0 {
		return &ResolvedPrice{Price: product.BasePrice, Source: SourceCatalog}, nil
	}

	winner := pickWinner(matched)
	return &ResolvedPrice{
		Price:      winner.UnitPrice,
		Source:     SourceOverride,
		OverrideID: &winner.ID,
	}, nil
}

// matchesAudience keeps overrides whose customer id is unset or equal to the
// caller's, and whose region id is unset or equal to the supplied region.
// An override pinned to a region never matches a call without one.
func matchesAudience(o models.PriceOverride, customerID uuid.UUID, regionID *uuid.UUID) bool {
	if o.CustomerID != nil && *o.CustomerID != customerID {
		return false
	}
	if o.RegionID != nil {
		if regionID == nil || *o.RegionID != *regionID {
			return false
		}
	}
	return true
}

// pickWinner ranks descending by customer match, region match, priority,
// validFrom, then id. Specificity beats configured priority; priority beats
// recency.
func pickWinner(matched []models.PriceOverride) models.PriceOverride {
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if (a.CustomerID != nil) != (b.CustomerID != nil) {
			return a.CustomerID != nil
		}
		if (a.RegionID != nil) != (b.RegionID != nil) {
			return a.RegionID != nil
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.ValidFrom.Equal(b.ValidFrom) {
			return a.ValidFrom.After(b.ValidFrom)
		}
		return a.ID.String() > b.ID.String()
	})
	return matched[0]
}

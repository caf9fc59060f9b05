package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/pricing-engine/pkg/db/models"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
)

// Service defines the catalog collaborator surface the pricing engine reads.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductInfo, error)
}

// ProductInfo is the catalog fact set a price calculation needs.
type ProductInfo struct {
	ID             uuid.UUID
	SKU            string
	Name           string
	BasePrice      decimal.Decimal
	CategoryID     uuid.UUID
	ManufacturerID uuid.UUID
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductInfo, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newProductInfo(product), nil
}

func newProductInfo(product *models.Product) *ProductInfo {
	return &ProductInfo{
		ID:             product.ID,
		SKU:            product.SKU,
		Name:           product.Name,
		BasePrice:      product.BasePrice,
		CategoryID:     product.CategoryID,
		ManufacturerID: product.ManufacturerID,
	}
}

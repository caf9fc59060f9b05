package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pharmadist/pricing-engine/pkg/db/models"
	"github.com/pharmadist/pricing-engine/pkg/enums"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
)

// Service defines the customer directory surface the pricing engine reads.
// The parent/child relation is a strict two-level hierarchy: a child holds its
// parent's id, and children never have children of their own.
type Service interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerInfo, error)
	IsChildOf(ctx context.Context, childID, parentID uuid.UUID) (bool, error)
}

// CustomerInfo is the directory fact set eligibility checks need.
type CustomerInfo struct {
	ID               uuid.UUID
	Name             string
	Tier             enums.CustomerTier
	Type             enums.CustomerType
	ParentCustomerID *uuid.UUID
}

// HasParent reports whether the customer belongs to a parent account.
func (c *CustomerInfo) HasParent() bool {
	return c != nil && c.ParentCustomerID != nil && *c.ParentCustomerID != uuid.Nil
}

type service struct {
	repo Repository
}

// NewService wires a customer directory service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerInfo, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newCustomerInfo(customer), nil
}

func (s *service) IsChildOf(ctx context.Context, childID, parentID uuid.UUID) (bool, error) {
	if childID == uuid.Nil || parentID == uuid.Nil {
		return false, nil
	}
	child, err := s.GetCustomer(ctx, childID)
	if err != nil {
		return false, err
	}
	return child.HasParent() && *child.ParentCustomerID == parentID, nil
}

func newCustomerInfo(customer *models.Customer) *CustomerInfo {
	return &CustomerInfo{
		ID:               customer.ID,
		Name:             customer.Name,
		Tier:             customer.Tier,
		Type:             customer.Type,
		ParentCustomerID: customer.ParentCustomerID,
	}
}

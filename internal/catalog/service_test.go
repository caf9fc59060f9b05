package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pharmadist/pricing-engine/pkg/db/models"
	pkgerrors "github.com/pharmadist/pricing-engine/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	product := &models.Product{
		ID:             uuid.New(),
		SKU:            "AMOX-500",
		Name:           "Amoxicillin 500mg",
		BasePrice:      decimal.RequireFromString("100.00"),
		CategoryID:     uuid.New(),
		ManufacturerID: uuid.New(),
		Active:         true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	info, err := svc.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct error: %v", err)
	}
	if !info.BasePrice.Equal(product.BasePrice) {
		t.Fatalf("base price mismatch: got %s want %s", info.BasePrice, product.BasePrice)
	}
	if info.CategoryID != product.CategoryID || info.ManufacturerID != product.ManufacturerID {
		t.Fatalf("unexpected product info %+v", info)
	}
}

func TestGetProductUnknownID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetProductNilID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

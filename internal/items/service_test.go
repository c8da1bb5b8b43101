package items

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/appakade/pos-backend/pkg/db/models"
	pkgerrors "github.com/appakade/pos-backend/pkg/errors"
)

type stubRepo struct {
	Repository

	createErr   error
	created     *models.Item
	findItem    *models.Item
	findErr     error
	updateRows  int64
	updateErr   error
	deleteRows  int64
	deleteErr   error
	listItems   []models.Item
	listErr     error
	lastCreated *models.Item
}

func (s *stubRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastCreated = item
	if s.created != nil {
		return s.created, nil
	}
	item.ID = 1
	return item, nil
}

func (s *stubRepo) List(ctx context.Context, filter ListFilter) ([]models.Item, error) {
	return s.listItems, s.listErr
}

func (s *stubRepo) ListLowStock(ctx context.Context) ([]models.Item, error) {
	return s.listItems, s.listErr
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	return s.findItem, s.findErr
}

func (s *stubRepo) Update(ctx context.Context, item *models.Item) (int64, error) {
	return s.updateRows, s.updateErr
}

func (s *stubRepo) Delete(ctx context.Context, id int64) (int64, error) {
	return s.deleteRows, s.deleteErr
}

func ptrInt(v int) *int { return &v }

func validCreateInput() CreateItemInput {
	return CreateItemInput{
		Name:            "Egg Roti",
		Category:        "Short Eats",
		Price:           decimal.RequireFromString("85"),
		QuantityInStock: 12,
	}
}

func TestCreateAppliesDefaultThreshold(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	item, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.LowStockThreshold != models.DefaultLowStockThreshold {
		t.Fatalf("expected default threshold %d, got %d", models.DefaultLowStockThreshold, item.LowStockThreshold)
	}

	input := validCreateInput()
	input.LowStockThreshold = ptrInt(2)
	item, err = svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create with threshold: %v", err)
	}
	if item.LowStockThreshold != 2 {
		t.Fatalf("expected threshold 2, got %d", item.LowStockThreshold)
	}
}

func TestCreateTrimsNameAndValidates(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, _ := NewService(repo)
	ctx := context.Background()

	input := validCreateInput()
	input.Name = "  Egg Roti  "
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.lastCreated.Name != "Egg Roti" {
		t.Fatalf("expected trimmed name, got %q", repo.lastCreated.Name)
	}

	cases := []struct {
		name  string
		mut   func(*CreateItemInput)
	}{
		{name: "blank name", mut: func(in *CreateItemInput) { in.Name = "   " }},
		{name: "unknown category", mut: func(in *CreateItemInput) { in.Category = "Sides" }},
		{name: "zero price", mut: func(in *CreateItemInput) { in.Price = decimal.Zero }},
		{name: "negative price", mut: func(in *CreateItemInput) { in.Price = decimal.RequireFromString("-5") }},
		{name: "negative stock", mut: func(in *CreateItemInput) { in.QuantityInStock = -1 }},
		{name: "negative threshold", mut: func(in *CreateItemInput) { in.LowStockThreshold = ptrInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mut(&input)
			_, err := svc.Create(ctx, input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateMapsDuplicateName(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{createErr: gorm.ErrDuplicatedKey}
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), validCreateInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDuplicateName) {
		t.Fatalf("expected duplicate-name error, got %v", err)
	}
	appErr := pkgerrors.As(err)
	details, ok := appErr.Details().(map[string]any)
	if !ok || details["name"] != "Egg Roti" {
		t.Fatalf("expected details to carry the name, got %v", appErr.Details())
	}
}

func TestGetByIDMapsNotFound(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{findErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	_, err := svc.GetByID(context.Background(), 42)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpdateMapsZeroRowsToNotFound(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{updateRows: 0}
	svc, _ := NewService(repo)

	input := UpdateItemInput{
		ID:              7,
		Name:            "Egg Roti",
		Category:        "Short Eats",
		Price:           decimal.RequireFromString("85"),
		QuantityInStock: 4,
	}
	_, err := svc.Update(context.Background(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	repo.updateRows = 1
	item, err := svc.Update(context.Background(), input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.ID != 7 || item.QuantityInStock != 4 {
		t.Fatalf("unexpected updated item: %+v", item)
	}
}

func TestDeleteSurfacesReferentialBlock(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{deleteRows: 0}
	svc, _ := NewService(repo)

	affected, err := svc.Delete(context.Background(), 3)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows for blocked delete, got %d", affected)
	}

	if _, err := svc.Delete(context.Background(), 0); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad id, got %v", err)
	}
}

func TestListWrapsStorageErrors(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{listErr: errors.New("disk full")}
	svc, _ := NewService(repo)

	if _, err := svc.List(context.Background(), ListFilter{}); !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if _, err := svc.ListLowStock(context.Background()); !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

func TestAddRejectsUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCartRepo{}, &stubProductFinder{err: gorm.ErrRecordNotFound})

	err := svc.Add(context.Background(), 1, 99)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddBumpsExistingLine(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{}
	svc := newTestService(t, repo, &stubProductFinder{product: &models.Product{ID: 3}})

	if err := svc.Add(context.Background(), 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.addCalls != 1 {
		t.Fatalf("expected one add call, got %d", repo.addCalls)
	}
}

func TestItemsComputesTotals(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{
		items: []models.CartItem{
			{ProductID: 1, Quantity: 2, Product: &models.Product{ID: 1, Name: "Kit", Price: decimal.NewFromInt(500), ImagePath: "/img/kit.jpg"}},
			{ProductID: 2, Quantity: 1, Product: &models.Product{ID: 2, Name: "Liquid", Price: decimal.NewFromInt(300)}},
		},
	}
	svc := newTestService(t, repo, &stubProductFinder{})

	cart, err := svc.Items(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(cart.Items))
	}
	if cart.Items[0].Total != 1000 {
		t.Fatalf("unexpected line total %f", cart.Items[0].Total)
	}
	if cart.Total != 1300 {
		t.Fatalf("unexpected cart total %f", cart.Total)
	}
}

func TestSetQuantityZeroDeletesLine(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{}
	svc := newTestService(t, repo, &stubProductFinder{})

	if err := svc.SetQuantity(context.Background(), 1, 3, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deleteCalls != 1 {
		t.Fatalf("expected delete, got %d delete calls", repo.deleteCalls)
	}
	if repo.setCalls != 0 {
		t.Fatalf("expected no quantity update, got %d", repo.setCalls)
	}
}

func TestSetQuantityStoresAbsoluteValue(t *testing.T) {
	t.Parallel()

	repo := &stubCartRepo{}
	svc := newTestService(t, repo, &stubProductFinder{})

	if err := svc.SetQuantity(context.Background(), 1, 3, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.setCalls != 1 || repo.lastQuantity != 5 {
		t.Fatalf("expected absolute quantity 5, got calls=%d qty=%d", repo.setCalls, repo.lastQuantity)
	}
}

func TestMutationsRequireUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubCartRepo{}, &stubProductFinder{})

	if err := svc.Add(context.Background(), 0, 1); pkgerrors.As(err) == nil {
		t.Fatalf("expected error, got %v", err)
	}
	if err := svc.Remove(context.Background(), 0, 1); pkgerrors.As(err) == nil {
		t.Fatalf("expected error, got %v", err)
	}
	if _, err := svc.Items(context.Background(), 0); pkgerrors.As(err) == nil {
		t.Fatalf("expected error, got %v", err)
	}
}

func newTestService(t *testing.T, repo CartRepository, finder ProductFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{CartRepo: repo, ProductRepo: finder})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubCartRepo struct {
	items        []models.CartItem
	addCalls     int
	setCalls     int
	deleteCalls  int
	lastQuantity int
}

func (s *stubCartRepo) ListForUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepo) AddOne(ctx context.Context, userID, productID uint) error {
	s.addCalls++
	return nil
}

func (s *stubCartRepo) SetQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	s.setCalls++
	s.lastQuantity = quantity
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, userID, productID uint) error {
	s.deleteCalls++
	return nil
}

func (s *stubCartRepo) ClearForUser(ctx context.Context, userID uint) error {
	return nil
}

type stubProductFinder struct {
	product *models.Product
	err     error
}

func (s *stubProductFinder) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.product != nil {
		return s.product, nil
	}
	return &models.Product{ID: id}, nil
}

package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/internal/locations"
	"github.com/vapecloud/miniapp/pkg/db/models"
	"github.com/vapecloud/miniapp/pkg/enums"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

func cartWith(lines ...models.CartItem) []models.CartItem {
	return lines
}

func testCart() []models.CartItem {
	return cartWith(
		models.CartItem{ProductID: 1, Quantity: 2, Product: &models.Product{ID: 1, Name: "Kit", Price: decimal.NewFromInt(500)}},
		models.CartItem{ProductID: 2, Quantity: 1, Product: &models.Product{ID: 2, Name: "Liquid", Price: decimal.NewFromInt(300)}},
	)
}

func TestCreateDeliveryOrderPricesAndCommits(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{lines: testCart()}
	fee := 200.0
	resolver := &stubLocationResolver{
		deliveryCandidates: []locations.LocationDTO{{ID: 10, Name: "City delivery", DeliveryPrice: &fee}},
	}
	notifier := &stubNotifier{}
	svc := newTestService(t, repo, resolver, notifier)

	result, err := svc.Create(context.Background(), 1, CreateInput{
		CustomerName:    "Ivan",
		CustomerPhone:   "+79990001122",
		DeliveryType:    "delivery",
		DeliveryCity:    "Moscow",
		DeliveryAddress: "Lenina st. 1, apt 2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1500 {
		t.Fatalf("expected total 1500, got %f", result.Total)
	}
	if result.Cashback != 45.00 {
		t.Fatalf("expected cashback 45.00, got %f", result.Cashback)
	}
	if repo.created == nil {
		t.Fatal("expected an order to be created")
	}
	if !repo.created.DeliveryPrice.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected delivery fee %s", repo.created.DeliveryPrice)
	}
	if repo.created.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected status %s", repo.created.Status)
	}
	if !repo.credited.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected 45 credited, got %s", repo.credited)
	}
	if !repo.cartCleared {
		t.Fatal("expected cart to be cleared")
	}
	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "New order") {
		t.Fatalf("expected admin notification, got %+v", notifier.sent)
	}
}

func TestCreatePickupOrderHasNoFee(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{lines: testCart()}
	pointID := uint(3)
	resolver := &stubLocationResolver{
		point: &models.PickupLocation{ID: 3, Name: "Pickup point 1", Address: "Lenina st. 10", LocationType: enums.DeliveryTypePickup},
	}
	svc := newTestService(t, repo, resolver, &stubNotifier{})

	result, err := svc.Create(context.Background(), 1, CreateInput{
		CustomerName:     "Ivan",
		CustomerPhone:    "+79990001122",
		DeliveryType:     "pickup",
		DeliveryCity:     "Moscow",
		PickupLocationID: &pointID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1300 {
		t.Fatalf("expected total 1300, got %f", result.Total)
	}
	if !repo.created.DeliveryPrice.IsZero() {
		t.Fatalf("pickup orders must carry no fee, got %s", repo.created.DeliveryPrice)
	}
	if repo.created.PickupLocation != "Pickup point 1, Lenina st. 10" {
		t.Fatalf("unexpected pickup label %q", repo.created.PickupLocation)
	}
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubOrderRepo{}, &stubLocationResolver{}, nil)

	_, err := svc.Create(context.Background(), 1, CreateInput{
		CustomerName:    "Ivan",
		CustomerPhone:   "+79990001122",
		DeliveryType:    "delivery",
		DeliveryCity:    "Moscow",
		DeliveryAddress: "addr",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsCityWithoutDelivery(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{lines: testCart()}
	svc := newTestService(t, repo, &stubLocationResolver{}, nil)

	_, err := svc.Create(context.Background(), 1, CreateInput{
		CustomerName:    "Ivan",
		CustomerPhone:   "+79990001122",
		DeliveryType:    "delivery",
		DeliveryCity:    "Nowhere",
		DeliveryAddress: "addr",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "not available") {
		t.Fatalf("unexpected message: %v", err)
	}
	if repo.created != nil {
		t.Fatal("no order should be written")
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubOrderRepo{lines: testCart()}, &stubLocationResolver{}, nil)

	cases := []struct {
		name  string
		input CreateInput
		field string
	}{
		{"missing name", CreateInput{CustomerPhone: "+7", DeliveryType: "pickup", DeliveryCity: "Moscow"}, "customer_name"},
		{"missing phone", CreateInput{CustomerName: "Ivan", DeliveryType: "pickup", DeliveryCity: "Moscow"}, "customer_phone"},
		{"missing city", CreateInput{CustomerName: "Ivan", CustomerPhone: "+7", DeliveryType: "pickup"}, "delivery_city"},
		{"missing pickup point", CreateInput{CustomerName: "Ivan", CustomerPhone: "+7", DeliveryType: "pickup", DeliveryCity: "Moscow"}, "pickup_location_id"},
		{"missing address", CreateInput{CustomerName: "Ivan", CustomerPhone: "+7", DeliveryType: "delivery", DeliveryCity: "Moscow"}, "delivery_address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			details, ok := typed.Details().(map[string]string)
			if !ok || details["field"] != tc.field {
				t.Fatalf("expected field %q tagged, got %+v", tc.field, typed.Details())
			}
		})
	}
}

func TestCreateSurvivesNotifierFailure(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{lines: testCart()}
	fee := 250.0
	resolver := &stubLocationResolver{
		deliveryCandidates: []locations.LocationDTO{{ID: 11, DeliveryPrice: &fee}},
	}
	notifier := &stubNotifier{err: context.DeadlineExceeded}
	svc := newTestService(t, repo, resolver, notifier)

	if _, err := svc.Create(context.Background(), 1, CreateInput{
		CustomerName:    "Ivan",
		CustomerPhone:   "+7",
		DeliveryType:    "delivery",
		DeliveryCity:    "Saint Petersburg",
		DeliveryAddress: "addr",
	}); err != nil {
		t.Fatalf("notification failure must not fail the order: %v", err)
	}
}

func TestListByUserMapsDTO(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubOrderRepo{
		history: []models.Order{
			{
				ID:             5,
				Status:         enums.OrderStatusCompleted,
				CreatedAt:      created,
				TotalAmount:    decimal.NewFromInt(1500),
				CashbackEarned: decimal.RequireFromString("45.00"),
				DeliveryType:   enums.DeliveryTypeDelivery,
				DeliveryCity:   "Moscow",
			},
			{
				ID:             4,
				Status:         enums.OrderStatusPending,
				CreatedAt:      created.Add(-time.Hour),
				DeliveryType:   enums.DeliveryTypePickup,
				PickupLocation: "Pickup point 1, Lenina st. 10",
			},
		},
	}
	svc := newTestService(t, repo, &stubLocationResolver{}, nil)

	dtos, err := svc.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected two orders, got %d", len(dtos))
	}
	if dtos[0].Status != "completed" || dtos[0].TotalAmount != 1500 {
		t.Fatalf("unexpected first order %+v", dtos[0])
	}
	if dtos[0].DeliveryCity == nil || *dtos[0].DeliveryCity != "Moscow" {
		t.Fatalf("expected delivery city on delivery order")
	}
	if dtos[0].PickupLocation != nil {
		t.Fatalf("delivery order must not carry a pickup location")
	}
	if dtos[1].PickupLocation == nil || *dtos[1].PickupLocation != "Pickup point 1, Lenina st. 10" {
		t.Fatalf("unexpected second order %+v", dtos[1])
	}
	if repo.lastLimit != HistoryLimit {
		t.Fatalf("expected history limit %d, got %d", HistoryLimit, repo.lastLimit)
	}
}

func newTestService(t *testing.T, repo Repository, resolver LocationResolver, notifier AdminNotifier) Service {
	t.Helper()
	params := ServiceParams{
		OrderRepo:    repo,
		Tx:           stubTxRunner{},
		Locations:    resolver,
		Notifier:     notifier,
		AdminChatID:  -100123,
		CashbackRate: decimal.RequireFromString("0.03"),
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	lines       []models.CartItem
	history     []models.Order
	created     *models.Order
	credited    decimal.Decimal
	cartCleared bool
	lastLimit   int
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = 7
	s.created = order
	return order, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Order, error) {
	s.lastLimit = limit
	return s.history, nil
}

func (s *stubOrderRepo) CartLines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.lines, nil
}

func (s *stubOrderRepo) ClearCart(ctx context.Context, userID uint) error {
	s.cartCleared = true
	return nil
}

func (s *stubOrderRepo) CreditBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	s.credited = amount
	return nil
}

type stubLocationResolver struct {
	deliveryCandidates []locations.LocationDTO
	point              *models.PickupLocation
}

func (s *stubLocationResolver) List(ctx context.Context, locationType enums.DeliveryType, city string) ([]locations.LocationDTO, error) {
	return s.deliveryCandidates, nil
}

func (s *stubLocationResolver) Find(ctx context.Context, id uint) (*models.PickupLocation, error) {
	if s.point == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	return s.point, nil
}

type stubNotifier struct {
	sent []string
	err  error
}

func (s *stubNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/internal/locations"
	"github.com/vapecloud/miniapp/pkg/db/models"
	"github.com/vapecloud/miniapp/pkg/enums"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
	"github.com/vapecloud/miniapp/pkg/logger"
)

// HistoryLimit caps the number of orders returned for the profile view.
const HistoryLimit = 20

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LocationResolver is the slice of the locations service used at checkout.
type LocationResolver interface {
	List(ctx context.Context, locationType enums.DeliveryType, city string) ([]locations.LocationDTO, error)
	Find(ctx context.Context, id uint) (*models.PickupLocation, error)
}

// AdminNotifier delivers the new-order message to the shop operators.
type AdminNotifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// CreateInput carries the order fields collected by the checkout wizard.
type CreateInput struct {
	CustomerName     string
	CustomerPhone    string
	DeliveryType     string
	DeliveryCity     string
	PickupLocationID *uint
	DeliveryAddress  string
}

// CreateResult reports a placed order back to the client.
type CreateResult struct {
	OrderID  uint
	Total    float64
	Cashback float64
	Message  string
}

// OrderDTO is the wire shape of one order in the profile history.
type OrderDTO struct {
	ID             uint    `json:"id"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	TotalAmount    float64 `json:"total_amount"`
	CashbackEarned float64 `json:"cashback_earned"`
	DeliveryType   string  `json:"delivery_type"`
	PickupLocation *string `json:"pickup_location,omitempty"`
	DeliveryCity   *string `json:"delivery_city,omitempty"`
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	OrderRepo    Repository
	Tx           TxRunner
	Locations    LocationResolver
	Notifier     AdminNotifier
	AdminChatID  int64
	CashbackRate decimal.Decimal
	Logger       *logger.Logger
}

// Service exposes order placement and history.
type Service interface {
	Create(ctx context.Context, userID uint, input CreateInput) (*CreateResult, error)
	ListByUser(ctx context.Context, userID uint) ([]OrderDTO, error)
}

type service struct {
	orderRepo    Repository
	tx           TxRunner
	locations    LocationResolver
	notifier     AdminNotifier
	adminChatID  int64
	cashbackRate decimal.Decimal
	logg         *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Locations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "locations resolver is required")
	}
	if params.CashbackRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cashback rate must not be negative")
	}
	return &service{
		orderRepo:    params.OrderRepo,
		tx:           params.Tx,
		locations:    params.Locations,
		notifier:     params.Notifier,
		adminChatID:  params.AdminChatID,
		cashbackRate: params.CashbackRate,
		logg:         params.Logger,
	}, nil
}

// Create validates the draft, prices it, and writes the order, the cashback
// credit and the cart cleanup in one transaction. The admin notification goes
// out only after the transaction commits.
func (s *service) Create(ctx context.Context, userID uint, input CreateInput) (*CreateResult, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}

	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	city := strings.TrimSpace(input.DeliveryCity)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required").WithDetails(map[string]string{"field": "customer_name"})
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required").WithDetails(map[string]string{"field": "customer_phone"})
	}
	deliveryType, err := enums.ParseDeliveryType(input.DeliveryType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown delivery type")
	}
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery city is required").WithDetails(map[string]string{"field": "delivery_city"})
	}

	lines, err := s.orderRepo.CartLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart line has no product")
		}
		subtotal = subtotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		UserID:        userID,
		CustomerName:  name,
		CustomerPhone: phone,
		DeliveryType:  deliveryType,
		DeliveryCity:  city,
		Status:        enums.OrderStatusPending,
	}

	fee := decimal.Zero
	switch deliveryType {
	case enums.DeliveryTypePickup:
		if input.PickupLocationID == nil || *input.PickupLocationID == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup location is required").WithDetails(map[string]string{"field": "pickup_location_id"})
		}
		point, findErr := s.locations.Find(ctx, *input.PickupLocationID)
		if findErr != nil {
			return nil, findErr
		}
		if point.LocationType != enums.DeliveryTypePickup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is not a pickup point")
		}
		order.PickupLocation = fmt.Sprintf("%s, %s", point.Name, point.Address)
	case enums.DeliveryTypeDelivery:
		address := strings.TrimSpace(input.DeliveryAddress)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required").WithDetails(map[string]string{"field": "delivery_address"})
		}
		candidates, listErr := s.locations.List(ctx, enums.DeliveryTypeDelivery, city)
		if listErr != nil {
			return nil, listErr
		}
		if len(candidates) == 0 || candidates[0].DeliveryPrice == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery is not available in this city")
		}
		// City-level flat fee: the first candidate wins.
		fee = decimal.NewFromFloat(*candidates[0].DeliveryPrice)
		order.DeliveryAddress = address
	}

	total := subtotal.Add(fee)
	cashback := total.Mul(s.cashbackRate).Round(2)

	order.TotalAmount = total
	order.CashbackEarned = cashback
	order.DeliveryPrice = fee

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if _, createErr := repo.Create(ctx, order); createErr != nil {
			return createErr
		}
		if creditErr := repo.CreditBalance(ctx, userID, cashback); creditErr != nil {
			return creditErr
		}
		return repo.ClearCart(ctx, userID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	s.notifyAdmin(ctx, order)

	return &CreateResult{
		OrderID:  order.ID,
		Total:    total.InexactFloat64(),
		Cashback: cashback.InexactFloat64(),
		Message:  fmt.Sprintf("Order #%d placed", order.ID),
	}, nil
}

// ListByUser returns the most recent orders for the profile view.
func (s *service) ListByUser(ctx context.Context, userID uint) ([]OrderDTO, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	records, err := s.orderRepo.ListByUser(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toOrderDTO(record))
	}
	return dtos, nil
}

func (s *service) notifyAdmin(ctx context.Context, order *models.Order) {
	if s.notifier == nil || s.adminChatID == 0 {
		return
	}
	fulfillment := order.PickupLocation
	if order.DeliveryType == enums.DeliveryTypeDelivery {
		fulfillment = fmt.Sprintf("%s, %s", order.DeliveryCity, order.DeliveryAddress)
	}
	text := fmt.Sprintf(
		"<b>New order #%d</b>\n%s (%s)\n%s: %s\nTotal: %s",
		order.ID,
		order.CustomerName,
		order.CustomerPhone,
		order.DeliveryType,
		fulfillment,
		order.TotalAmount.StringFixed(2),
	)
	if err := s.notifier.SendMessage(ctx, s.adminChatID, text); err != nil && s.logg != nil {
		s.logg.Error(ctx, "admin order notification failed", err)
	}
}

func toOrderDTO(record models.Order) OrderDTO {
	dto := OrderDTO{
		ID:             record.ID,
		Status:         record.Status.String(),
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
		TotalAmount:    record.TotalAmount.InexactFloat64(),
		CashbackEarned: record.CashbackEarned.InexactFloat64(),
		DeliveryType:   record.DeliveryType.String(),
	}
	if record.PickupLocation != "" {
		value := record.PickupLocation
		dto.PickupLocation = &value
	}
	if record.DeliveryCity != "" && record.DeliveryType == enums.DeliveryTypeDelivery {
		value := record.DeliveryCity
		dto.DeliveryCity = &value
	}
	return dto
}

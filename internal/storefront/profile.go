package storefront

import (
	"fmt"

	"github.com/vapecloud/miniapp/pkg/shopclient"
)

// ProfileViewModel is the rendered shape of the profile screen.
type ProfileViewModel struct {
	Balance float64
	Orders  []OrderLine
}

// OrderLine is one row of the order history.
type OrderLine struct {
	ID            uint
	StatusDisplay string
	CreatedAt     string
	Total         float64
	Cashback      float64
	Fulfillment   string
}

// StatusDisplay maps a wire order status to its display label. Unknown
// statuses show verbatim.
func StatusDisplay(status string) string {
	switch status {
	case "completed":
		return "Completed"
	case "pending":
		return "Processing"
	case "cancelled":
		return "Cancelled"
	default:
		return status
	}
}

// BuildProfileViewModel flattens the profile payload for rendering.
func BuildProfileViewModel(profile shopclient.Profile) ProfileViewModel {
	lines := make([]OrderLine, 0, len(profile.Orders))
	for _, order := range profile.Orders {
		lines = append(lines, OrderLine{
			ID:            order.ID,
			StatusDisplay: StatusDisplay(order.Status),
			CreatedAt:     order.CreatedAt,
			Total:         order.TotalAmount,
			Cashback:      order.CashbackEarned,
			Fulfillment:   fulfillmentLine(order),
		})
	}
	return ProfileViewModel{Balance: profile.Balance, Orders: lines}
}

func fulfillmentLine(order shopclient.Order) string {
	if order.PickupLocation != nil && *order.PickupLocation != "" {
		return *order.PickupLocation
	}
	if order.DeliveryCity != nil && *order.DeliveryCity != "" {
		return fmt.Sprintf("Delivery to %s", *order.DeliveryCity)
	}
	return ""
}

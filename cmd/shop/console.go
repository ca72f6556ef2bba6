package main

import (
	"fmt"
	"io"

	"github.com/vapecloud/miniapp/internal/storefront"
	"github.com/vapecloud/miniapp/pkg/enums"
	"github.com/vapecloud/miniapp/pkg/shopclient"
)

// ConsoleView renders the storefront view-models as plain text.
type ConsoleView struct {
	out io.Writer
}

func NewConsoleView(out io.Writer) *ConsoleView {
	return &ConsoleView{out: out}
}

func (v *ConsoleView) RenderCart(cart shopclient.Cart) {
	if len(cart.Items) == 0 {
		fmt.Fprintln(v.out, "cart: empty")
		return
	}
	fmt.Fprintln(v.out, "cart:")
	for _, item := range cart.Items {
		fmt.Fprintf(v.out, "  [%d] %s  %.2f x %d = %.2f\n", item.ID, item.Name, item.Price, item.Quantity, item.Total)
	}
	fmt.Fprintf(v.out, "  total: %.2f\n", cart.Total)
}

func (v *ConsoleView) ShowStep(step storefront.Step) {
	fmt.Fprintf(v.out, "-- step: %s --\n", step)
}

func (v *ConsoleView) RenderSummary(summary storefront.OrderSummary) {
	fmt.Fprintf(v.out, "summary: subtotal %s, delivery %s, total %s, cashback %s\n",
		summary.Subtotal, summary.DeliveryFee, summary.Total, summary.Cashback)
}

func (v *ConsoleView) RenderCities(cities []string, selected string) {
	fmt.Fprintln(v.out, "cities:")
	for _, city := range cities {
		marker := " "
		if city == selected {
			marker = "*"
		}
		fmt.Fprintf(v.out, "  %s %s\n", marker, city)
	}
}

func (v *ConsoleView) SetCityConfirmEnabled(enabled bool) {
	if enabled {
		fmt.Fprintln(v.out, "(city confirmed, continue with 'next')")
	}
}

func (v *ConsoleView) RenderPickupPoints(points []shopclient.Location, selectable bool) {
	if !selectable {
		fmt.Fprintln(v.out, "no pickup points in this city")
		return
	}
	fmt.Fprintln(v.out, "pickup points:")
	for _, point := range points {
		fmt.Fprintf(v.out, "  [%d] %s, %s\n", point.ID, point.Name, point.Address)
	}
}

func (v *ConsoleView) ShowDeliverySections(deliveryType enums.DeliveryType) {
	fmt.Fprintf(v.out, "fulfillment: %s\n", deliveryType)
}

func (v *ConsoleView) RenderProfile(profile storefront.ProfileViewModel) {
	fmt.Fprintf(v.out, "balance: %.2f\n", profile.Balance)
	if len(profile.Orders) == 0 {
		fmt.Fprintln(v.out, "no orders yet")
		return
	}
	fmt.Fprintln(v.out, "orders:")
	for _, order := range profile.Orders {
		fmt.Fprintf(v.out, "  #%d %s  %.2f (+%.2f)  %s\n",
			order.ID, order.StatusDisplay, order.Total, order.Cashback, order.Fulfillment)
	}
}

func (v *ConsoleView) Notify(n storefront.Notification) {
	prefix := "ok"
	if n.Severity == storefront.SeverityError {
		prefix = "error"
	}
	if n.Field != "" {
		fmt.Fprintf(v.out, "[%s] %s (%s)\n", prefix, n.Message, n.Field)
		return
	}
	fmt.Fprintf(v.out, "[%s] %s\n", prefix, n.Message)
}

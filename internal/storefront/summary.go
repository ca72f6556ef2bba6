package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/vapecloud/miniapp/pkg/enums"
	"github.com/vapecloud/miniapp/pkg/shopclient"
)

// CashbackRate is the share of the order total credited back to the
// shopper's balance.
var CashbackRate = decimal.NewFromFloat(0.03)

// OrderSummary is derived from the cart and the delivery fee on every
// recompute; it is never cached across mutations.
type OrderSummary struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	Cashback    decimal.Decimal
}

// ComputeSummary folds the server-reported line totals with the delivery
// fee. Pickup orders never carry a fee.
func ComputeSummary(cart shopclient.Cart, deliveryType enums.DeliveryType, deliveryFee decimal.Decimal) OrderSummary {
	subtotal := decimal.Zero
	for _, item := range cart.Items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Total))
	}

	fee := decimal.Zero
	if deliveryType == enums.DeliveryTypeDelivery {
		fee = deliveryFee
	}

	total := subtotal.Add(fee)
	return OrderSummary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
		Cashback:    total.Mul(CashbackRate).Round(2),
	}
}

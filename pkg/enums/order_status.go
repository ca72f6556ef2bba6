package enums

// OrderStatus tracks the lifecycle of a placed order. Unknown values coming
// from the database are displayed verbatim, so there is no Parse helper here.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

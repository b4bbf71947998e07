package enums

import "fmt"

// OrderStatus tracks the aggregate lifecycle of a seller order.
type OrderStatus string

const (
	OrderStatusPendingApproval OrderStatus = "pending_approval"
	OrderStatusReceived        OrderStatus = "received"
	OrderStatusInProcess       OrderStatus = "in_process"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusRejected        OrderStatus = "rejected"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingApproval,
	OrderStatusReceived,
	OrderStatusInProcess,
	OrderStatusCompleted,
	OrderStatusRejected,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

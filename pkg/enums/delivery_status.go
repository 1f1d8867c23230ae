package enums

import "fmt"

// DeliveryStatus is the terminal outcome reported by the gateway for a
// submitted notice.
type DeliveryStatus string

const (
	DeliveryStatusDelivered DeliveryStatus = "Delivered"
	DeliveryStatusFailed    DeliveryStatus = "Failed"
	DeliveryStatusPending   DeliveryStatus = "Pending"
	DeliveryStatusInvalid   DeliveryStatus = "Invalid"
	DeliveryStatusOptedOut  DeliveryStatus = "OptedOut"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusDelivered,
	DeliveryStatusFailed,
	DeliveryStatusPending,
	DeliveryStatusInvalid,
	DeliveryStatusOptedOut,
}

// IsValid checks whether the given status matches the canonical enum.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw strings into DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}

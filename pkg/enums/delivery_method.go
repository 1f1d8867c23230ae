package enums

import "fmt"

// Delivery method codes as they appear in the ILS notification log.
const (
	DeliveryMethodMail      = 1
	DeliveryMethodEmail     = 2
	DeliveryMethodVoice     = 3 // primary phone field, voice calls
	DeliveryMethodPhone2    = 4
	DeliveryMethodPhone3    = 5
	DeliveryMethodFax       = 6
	DeliveryMethodEDI       = 7
	DeliveryMethodSMS       = 8 // same phone field as Voice, text messages
	DeliveryMethodMobileApp = 9
)

var deliveryMethodNames = map[int]string{
	DeliveryMethodMail:      "Mail",
	DeliveryMethodEmail:     "Email",
	DeliveryMethodVoice:     "Voice",
	DeliveryMethodPhone2:    "Phone 2 (Voice)",
	DeliveryMethodPhone3:    "Phone 3 (Voice)",
	DeliveryMethodFax:       "FAX",
	DeliveryMethodEDI:       "EDI",
	DeliveryMethodSMS:       "SMS",
	DeliveryMethodMobileApp: "Mobile App",
}

// DeliveryMethodName returns the display name for a delivery method code.
func DeliveryMethodName(code int) string {
	if name, ok := deliveryMethodNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

// IsGatewayDeliveryMethod reports whether the delivery method is handled by
// the voice/SMS gateway.
func IsGatewayDeliveryMethod(code int) bool {
	return code == DeliveryMethodVoice || code == DeliveryMethodSMS
}

package router

import "fmt"

// Code is a stable, machine-readable validation failure code. The application
// layer switches on these strings, so values must not change.
type Code string

const (
	// CodeBadArgs means the argument bundle itself is missing or not a map.
	CodeBadArgs Code = "BAD_ARGS"

	// Session and events
	CodeBadSessionKey    Code = "BAD_SESSION_KEY"
	CodeBadDebugEnabled  Code = "BAD_DEBUG_ENABLED"
	CodeBadEventToken    Code = "BAD_EVENT_TOKEN"
	CodeBadExtraUserInfo Code = "BAD_EXTRA_USER_INFO"
	CodeBadUserID        Code = "BAD_USER_ID"

	// In-app communications
	CodeBadInAppType    Code = "BAD_INAPP_TYPE"
	CodeBadTemplateID   Code = "BAD_TEMPLATE_ID"
	CodeBadCampaignID   Code = "BAD_CAMPAIGN_ID"
	CodeBadCampaignType Code = "BAD_CAMPAIGN_TYPE"

	// Orders
	CodeBadOrderID     Code = "BAD_ORDER_ID"
	CodeBadPrice       Code = "BAD_PRICE"
	CodeBadCustomerID  Code = "BAD_CUSTOMER_ID"
	CodeBadProductID   Code = "BAD_PRODUCT_ID"
	CodeBadProductName Code = "BAD_PRODUCT_NAME"
	CodeBadQuantity    Code = "BAD_QUANTITY_ID"
)

// Error is a failed argument validation.
type Error struct {
	Code    Code
	Message string
}

func (err *Error) Error() string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", err.Code, err.Message)
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

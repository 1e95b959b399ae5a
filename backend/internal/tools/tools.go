package tools

// Tool names - Guest Email Tools
const (
	ToolSendBookingConfirmationEmail = "send_booking_confirmation_email"
	ToolSendQuotationEmail           = "send_quotation_email"
)

// Tool names - Calendar Tools
const (
	ToolCreateCalendarEvent = "create_calendar_event"
)

// Tool names - Marketing Tools
const (
	ToolGenerateMarketingEmail = "generate_marketing_email"
	ToolCreateCampaign         = "create_campaign"
)

// Tool names - Restaurant Tools
const (
	ToolTakeRestaurantOrder   = "take_restaurant_order"
	ToolExplainMenuItem       = "explain_menu_item"
	ToolRouteOrderToKitchen   = "route_order_to_kitchen"
	ToolRouteOrderToBar       = "route_order_to_bar"
	ToolRouteOrderToFrontdesk = "route_order_to_frontdesk"
)

// Tool names - Inventory Tools
const (
	ToolInventoryCheckStock         = "inventory_check_stock"
	ToolInventoryDeductStock        = "inventory_deduct_stock"
	ToolInventoryReplenishStock     = "inventory_replenish_stock"
	ToolInventoryLowStockAlert      = "inventory_low_stock_alert"
	ToolInventoryReorderSuggestions = "inventory_reorder_suggestions"
)

// Tool names - Billing Tools
const (
	ToolGenerateInvoice = "generate_invoice"
	ToolGenerateReceipt = "generate_receipt"
)

// Providers a tool is fulfilled through.
const (
	ProviderSendGrid       = "sendgrid"
	ProviderGoogleCalendar = "google_calendar"
	ProviderOpenAI         = "openai"
	ProviderInternal       = "internal"
	ProviderPaymentGateway = "payment_gateway"
)

// Order routing stations.
const (
	StationKitchen   = "kitchen"
	StationBar       = "bar"
	StationFrontdesk = "frontdesk"
)

// AllDescriptors returns every tool the agent can dispatch, in catalog order.
func AllDescriptors() []ToolDescriptor {
	descriptors := []ToolDescriptor{}

	// Guest Email Tools
	descriptors = append(descriptors, GetEmailToolDescriptors()...)

	// Calendar Tools
	descriptors = append(descriptors, GetCalendarToolDescriptors()...)

	// Marketing Tools
	descriptors = append(descriptors, GetMarketingToolDescriptors()...)

	// Restaurant Tools
	descriptors = append(descriptors, GetRestaurantToolDescriptors()...)

	// Inventory Tools
	descriptors = append(descriptors, GetInventoryToolDescriptors()...)

	// Billing Tools
	descriptors = append(descriptors, GetBillingToolDescriptors()...)

	return descriptors
}

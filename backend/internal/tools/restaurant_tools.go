package tools

// GetRestaurantToolDescriptors returns the restaurant operations tools
func GetRestaurantToolDescriptors() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:           ToolTakeRestaurantOrder,
			Description:    "Record a restaurant order for a table. Each item is priced from the property's menu; the order starts at the pending station until routed.",
			Provider:       ProviderInternal,
			Scopes:         []string{"orders:write"},
			HospitalityUse: "Capture dine-in orders taken by the concierge",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tableNumber": map[string]interface{}{
						"type":        "string",
						"description": "Table identifier (e.g. '12', 'Terrace 3')",
					},
					"items": map[string]interface{}{
						"type":        "array",
						"description": "Ordered items by menu name",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":     map[string]interface{}{"type": "string"},
								"quantity": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"name"},
						},
					},
					"notes": map[string]interface{}{
						"type":        "string",
						"description": "Preparation notes or guest requests",
					},
				},
				"required": []string{"tableNumber", "items"},
			},
		},
		{
			Name:           ToolExplainMenuItem,
			Description:    "Look up a menu item and describe it: what it is, its price, and any allergens. Use this to answer guest questions about dishes.",
			Provider:       ProviderInternal,
			Scopes:         []string{},
			HospitalityUse: "Answer guest questions about menu dishes",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The menu item name, matched case-insensitively",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:           ToolRouteOrderToKitchen,
			Description:    "Route an existing order to the kitchen station for preparation.",
			Provider:       ProviderInternal,
			Scopes:         []string{"orders:route"},
			HospitalityUse: "Send food orders to the kitchen",
			RequiresAuth:   false,
			Parameters:     routeOrderParameters(),
		},
		{
			Name:           ToolRouteOrderToBar,
			Description:    "Route an existing order to the bar station for preparation.",
			Provider:       ProviderInternal,
			Scopes:         []string{"orders:route"},
			HospitalityUse: "Send drink orders to the bar",
			RequiresAuth:   false,
			Parameters:     routeOrderParameters(),
		},
		{
			Name:           ToolRouteOrderToFrontdesk,
			Description:    "Route an existing order to the front desk, for room-charge handling or pickup coordination.",
			Provider:       ProviderInternal,
			Scopes:         []string{"orders:route"},
			HospitalityUse: "Hand orders to the front desk for billing or pickup",
			RequiresAuth:   false,
			Parameters:     routeOrderParameters(),
		},
	}
}

// routeOrderParameters is shared by the three routing tools; they differ
// only in destination station.
func routeOrderParameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"orderId": map[string]interface{}{
				"type":        "string",
				"description": "ID of the order to route",
			},
		},
		"required": []string{"orderId"},
	}
}

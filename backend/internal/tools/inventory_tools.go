package tools

// GetInventoryToolDescriptors returns the stock management tools
func GetInventoryToolDescriptors() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:           ToolInventoryCheckStock,
			Description:    "Check the current stock level of an inventory item by SKU. Reports quantity, unit, and whether the item is at or below its reorder level.",
			Provider:       ProviderInternal,
			Scopes:         []string{"inventory:read"},
			HospitalityUse: "Answer stock questions for housekeeping and F&B",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sku": map[string]interface{}{
						"type":        "string",
						"description": "The item's stock keeping unit (e.g. 'TOWEL-BATH')",
					},
				},
				"required": []string{"sku"},
			},
		},
		{
			Name:           ToolInventoryDeductStock,
			Description:    "Deduct a quantity from an inventory item's stock, recording a movement. Fails rather than letting the counter go negative.",
			Provider:       ProviderInternal,
			Scopes:         []string{"inventory:write"},
			HospitalityUse: "Consume stock for housekeeping and kitchen use",
			RequiresAuth:   true,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sku": map[string]interface{}{
						"type":        "string",
						"description": "The item's stock keeping unit",
					},
					"quantity": map[string]interface{}{
						"type":        "integer",
						"description": "How many units to deduct (must be positive)",
					},
					"reason": map[string]interface{}{
						"type":        "string",
						"description": "Why stock was consumed (e.g. 'room 204 restock')",
					},
				},
				"required": []string{"sku", "quantity"},
			},
		},
		{
			Name:           ToolInventoryReplenishStock,
			Description:    "Add a received quantity to an inventory item's stock, recording a movement.",
			Provider:       ProviderInternal,
			Scopes:         []string{"inventory:write"},
			HospitalityUse: "Book received deliveries into stock",
			RequiresAuth:   true,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"sku": map[string]interface{}{
						"type":        "string",
						"description": "The item's stock keeping unit",
					},
					"quantity": map[string]interface{}{
						"type":        "integer",
						"description": "How many units were received (must be positive)",
					},
					"reason": map[string]interface{}{
						"type":        "string",
						"description": "Delivery reference or supplier note",
					},
				},
				"required": []string{"sku", "quantity"},
			},
		},
		{
			Name:           ToolInventoryLowStockAlert,
			Description:    "List every inventory item at or below its reorder level. Use this when asked what is running low.",
			Provider:       ProviderInternal,
			Scopes:         []string{"inventory:read"},
			HospitalityUse: "Surface items that need reordering",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:           ToolInventoryReorderSuggestions,
			Description:    "Suggest reorder quantities for items at or below their reorder level, based on each item's configured reorder quantity.",
			Provider:       ProviderInternal,
			Scopes:         []string{"inventory:read"},
			HospitalityUse: "Draft purchase orders for low stock",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

package tools

// GetBillingToolDescriptors returns the billing tools
func GetBillingToolDescriptors() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:           ToolGenerateInvoice,
			Description:    "Generate an invoice. Provide line items to have the total computed, or a totalAmount directly. Returns the new invoice's ID and total.",
			Provider:       ProviderPaymentGateway,
			Scopes:         []string{"billing:write"},
			HospitalityUse: "Invoice guests and corporate clients",
			RequiresAuth:   true,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"customerName": map[string]interface{}{
						"type":        "string",
						"description": "Who the invoice is addressed to",
					},
					"items": map[string]interface{}{
						"type":        "array",
						"description": "Invoice line items; total is the sum of quantity * price",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":     map[string]interface{}{"type": "string"},
								"quantity": map[string]interface{}{"type": "integer"},
								"price":    map[string]interface{}{"type": "number"},
							},
							"required": []string{"name"},
						},
					},
					"totalAmount": map[string]interface{}{
						"type":        "number",
						"description": "Invoice total, used when no line items are given",
					},
					"currency": map[string]interface{}{
						"type":        "string",
						"description": "ISO currency code (default 'NAD')",
					},
				},
			},
		},
		{
			Name:           ToolGenerateReceipt,
			Description:    "Record a payment against an invoice and issue a receipt. The amount defaults to the invoice total.",
			Provider:       ProviderPaymentGateway,
			Scopes:         []string{"billing:write"},
			HospitalityUse: "Receipt settled guest payments",
			RequiresAuth:   true,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"invoiceId": map[string]interface{}{
						"type":        "string",
						"description": "ID of the invoice being paid",
					},
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Amount received; defaults to the invoice total",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"description": "Payment method: 'card', 'cash', or 'transfer' (default 'card')",
					},
					"reference": map[string]interface{}{
						"type":        "string",
						"description": "Gateway or bank reference for the payment",
					},
				},
				"required": []string{"invoiceId"},
			},
		},
	}
}

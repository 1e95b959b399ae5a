package tools

// GetEmailToolDescriptors returns the guest-facing email tools
func GetEmailToolDescriptors() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:           ToolSendBookingConfirmationEmail,
			Description:    "Send a booking confirmation email to a guest. Use this after a reservation is confirmed to send the guest their stay details and confirmation number.",
			Provider:       ProviderSendGrid,
			Scopes:         []string{"email:send"},
			HospitalityUse: "Confirm room reservations to guests by email",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"to": map[string]interface{}{
						"type":        "string",
						"description": "The guest's email address",
					},
					"guestName": map[string]interface{}{
						"type":        "string",
						"description": "The guest's full name as it should appear in the email",
					},
					"checkIn": map[string]interface{}{
						"type":        "string",
						"description": "Check-in date (e.g. '2026-01-15')",
					},
					"checkOut": map[string]interface{}{
						"type":        "string",
						"description": "Check-out date (e.g. '2026-01-18')",
					},
					"roomType": map[string]interface{}{
						"type":        "string",
						"description": "The booked room type (e.g. 'Deluxe Ocean View')",
					},
					"confirmationNumber": map[string]interface{}{
						"type":        "string",
						"description": "Booking confirmation number, if one was already issued",
					},
				},
				"required": []string{"to", "guestName", "checkIn", "checkOut"},
			},
		},
		{
			Name:           ToolSendQuotationEmail,
			Description:    "Send a price quotation email to a prospective guest or corporate client. Lists the quoted items with quantities and prices and the total.",
			Provider:       ProviderSendGrid,
			Scopes:         []string{"email:send"},
			HospitalityUse: "Quote event, group, and corporate bookings",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"to": map[string]interface{}{
						"type":        "string",
						"description": "The recipient's email address",
					},
					"guestName": map[string]interface{}{
						"type":        "string",
						"description": "The recipient's name",
					},
					"items": map[string]interface{}{
						"type":        "array",
						"description": "Quoted line items",
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
					"validUntil": map[string]interface{}{
						"type":        "string",
						"description": "Date the quotation expires (e.g. '2026-02-01')",
					},
				},
				"required": []string{"to", "guestName", "items"},
			},
		},
	}
}

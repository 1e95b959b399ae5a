package tools

// GetCalendarToolDescriptors returns the calendar tools
func GetCalendarToolDescriptors() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:           ToolCreateCalendarEvent,
			Description:    "Create a calendar event for a property. Use this for conference bookings, spa appointments, restaurant reservations with a fixed time, or staff scheduling.",
			Provider:       ProviderGoogleCalendar,
			Scopes:         []string{"calendar:write"},
			HospitalityUse: "Schedule property events and guest appointments",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Event title",
					},
					"startTime": map[string]interface{}{
						"type":        "string",
						"description": "Event start in RFC3339 (e.g. '2026-01-15T14:00:00Z')",
					},
					"endTime": map[string]interface{}{
						"type":        "string",
						"description": "Event end in RFC3339; defaults to one hour after start",
					},
					"location": map[string]interface{}{
						"type":        "string",
						"description": "Where the event takes place (e.g. 'Conference Room A')",
					},
					"attendees": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Attendee email addresses",
					},
				},
				"required": []string{"title", "startTime"},
			},
		},
	}
}

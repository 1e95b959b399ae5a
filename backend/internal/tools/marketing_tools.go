package tools

// GetMarketingToolDescriptors returns the marketing tools
func GetMarketingToolDescriptors() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:           ToolGenerateMarketingEmail,
			Description:    "Draft a marketing email for a campaign. Produces a subject line and an HTML body tailored to the audience and tone; it does not send anything.",
			Provider:       ProviderOpenAI,
			Scopes:         []string{},
			HospitalityUse: "Draft promotional emails for property campaigns",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"campaignName": map[string]interface{}{
						"type":        "string",
						"description": "Name of the campaign this email belongs to",
					},
					"audience": map[string]interface{}{
						"type":        "string",
						"description": "Who the email targets (e.g. 'past guests', 'corporate clients')",
					},
					"tone": map[string]interface{}{
						"type":        "string",
						"description": "Desired tone (e.g. 'warm', 'formal', 'playful')",
					},
					"highlights": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Offers or features the email should highlight",
					},
				},
				"required": []string{"campaignName"},
			},
		},
		{
			Name:           ToolCreateCampaign,
			Description:    "Create a marketing campaign record. The campaign starts in draft status; link a generated email to it via emailId.",
			Provider:       ProviderInternal,
			Scopes:         []string{"marketing:write"},
			HospitalityUse: "Track promotional campaigns per property",
			RequiresAuth:   false,
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Campaign name",
					},
					"channel": map[string]interface{}{
						"type":        "string",
						"description": "Delivery channel: 'email' or 'sms' (default 'email')",
					},
					"audience": map[string]interface{}{
						"type":        "string",
						"description": "Audience segment the campaign targets",
					},
					"emailId": map[string]interface{}{
						"type":        "string",
						"description": "ID of a previously generated marketing email to attach",
					},
					"startsAt": map[string]interface{}{
						"type":        "string",
						"description": "Scheduled start in RFC3339; omit to leave the campaign unscheduled",
					},
				},
				"required": []string{"name"},
			},
		},
	}
}

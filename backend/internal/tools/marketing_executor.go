package tools

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"

	"buffr-host/backend/internal/store"
)

// ============================================================================
// Marketing Tool Implementations
// ============================================================================

const marketingSystemPrompt = `You write marketing emails for hospitality properties.
Respond with the subject line on the first line, then a blank line, then the HTML body.
Keep it short, warm, and specific to the audience. Do not invent prices or dates.`

func (e *Executor) executeGenerateMarketingEmail(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	campaignName, _ := args["campaignName"].(string)
	if campaignName == "" {
		return &ToolResult{Success: false, Error: "campaignName is required"}
	}
	audience, _ := args["audience"].(string)
	tone, _ := args["tone"].(string)

	var highlights []string
	if highlightsArg, ok := args["highlights"].([]interface{}); ok {
		for _, h := range highlightsArg {
			if hs, ok := h.(string); ok && hs != "" {
				highlights = append(highlights, hs)
			}
		}
	}

	subject, bodyHTML, source := e.composeMarketingEmail(ctx, campaignName, audience, tone, highlights)

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"campaignName": campaignName,
			"subject":      subject,
			"bodyHtml":     bodyHTML,
			"bodyText":     htmlToText(bodyHTML),
			"generatedBy":  source,
		},
	}
}

// composeMarketingEmail drafts through the composer when one is wired and
// falls back to the template when it is missing or fails. The tool reports
// success either way.
func (e *Executor) composeMarketingEmail(ctx context.Context, campaignName, audience, tone string, highlights []string) (subject, bodyHTML, source string) {
	if e.composer != nil {
		var prompt strings.Builder
		prompt.WriteString(fmt.Sprintf("Draft a marketing email for the campaign %q.", campaignName))
		if audience != "" {
			prompt.WriteString(fmt.Sprintf(" Audience: %s.", audience))
		}
		if tone != "" {
			prompt.WriteString(fmt.Sprintf(" Tone: %s.", tone))
		}
		if len(highlights) > 0 {
			prompt.WriteString(" Highlight: " + strings.Join(highlights, "; ") + ".")
		}

		resp, err := e.composer.Generate(ctx, marketingSystemPrompt, prompt.String(), nil)
		if err != nil {
			e.logger.Warn("Marketing composer failed, using template",
				zap.String("campaign", campaignName),
				zap.Error(err),
			)
		} else if resp != nil {
			if subject, bodyHTML, ok := splitSubjectBody(resp.Content); ok {
				return subject, bodyHTML, ProviderOpenAI
			}
		}
	}

	subject = fmt.Sprintf("Don't miss: %s", campaignName)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>%s</h2>", html.EscapeString(campaignName)))
	b.WriteString("<p>Dear guest,</p>")
	b.WriteString("<p>We have something special waiting for you.</p>")
	if len(highlights) > 0 {
		b.WriteString("<ul>")
		for _, h := range highlights {
			b.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(h)))
		}
		b.WriteString("</ul>")
	}
	b.WriteString("<p>We hope to welcome you soon.</p>")
	return subject, b.String(), "template"
}

// splitSubjectBody splits composer output into subject and body: subject is
// the first line, body everything after it. A leading "Subject:" label is
// stripped.
func splitSubjectBody(content string) (subject, body string, ok bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", false
	}
	parts := strings.SplitN(content, "\n", 2)
	subject = strings.TrimSpace(strings.TrimPrefix(parts[0], "Subject:"))
	if len(parts) > 1 {
		body = strings.TrimSpace(parts[1])
	}
	if subject == "" || body == "" {
		return "", "", false
	}
	return subject, body, true
}

func (e *Executor) executeCreateCampaign(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	name, _ := args["name"].(string)
	if name == "" {
		return &ToolResult{Success: false, Error: "name is required"}
	}
	channel, _ := args["channel"].(string)
	if channel == "" {
		channel = "email"
	}
	audience, _ := args["audience"].(string)
	emailID, _ := args["emailId"].(string)

	var startsAt time.Time
	if startsRaw, ok := args["startsAt"].(string); ok && startsRaw != "" {
		parsed, err := time.Parse(time.RFC3339, startsRaw)
		if err != nil {
			return &ToolResult{Success: false, Error: "startsAt must be an RFC3339 timestamp"}
		}
		startsAt = parsed.UTC()
	}

	campaign := &store.Campaign{
		TenantID: execCtx.TenantID,
		Name:     name,
		Channel:  channel,
		Audience: audience,
		EmailID:  emailID,
		StartsAt: startsAt,
	}
	if !startsAt.IsZero() {
		campaign.Status = "scheduled"
	}
	if err := e.store.InsertCampaign(ctx, campaign); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"campaignId": campaign.ID,
			"name":       campaign.Name,
			"channel":    campaign.Channel,
			"status":     campaign.Status,
		},
	}
}

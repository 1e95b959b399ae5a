package tools

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"buffr-host/backend/internal/store"
)

// ============================================================================
// Guest Email Tool Implementations
// ============================================================================

func (e *Executor) executeSendBookingConfirmationEmail(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	to, _ := args["to"].(string)
	if to == "" {
		return &ToolResult{Success: false, Error: "to is required"}
	}
	guestName, _ := args["guestName"].(string)
	if guestName == "" {
		return &ToolResult{Success: false, Error: "guestName is required"}
	}
	checkIn, _ := args["checkIn"].(string)
	if checkIn == "" {
		return &ToolResult{Success: false, Error: "checkIn is required"}
	}
	checkOut, _ := args["checkOut"].(string)
	if checkOut == "" {
		return &ToolResult{Success: false, Error: "checkOut is required"}
	}
	roomType, _ := args["roomType"].(string)

	confirmationNumber, _ := args["confirmationNumber"].(string)
	if confirmationNumber == "" {
		confirmationNumber = "BK-" + strings.ToUpper(uuid.New().String()[:8])
	}

	subject := fmt.Sprintf("Booking confirmed - %s", confirmationNumber)
	bodyHTML := bookingConfirmationHTML(guestName, checkIn, checkOut, roomType, confirmationNumber)

	email := &store.OutboundEmail{
		TenantID:  execCtx.TenantID,
		Recipient: to,
		Subject:   subject,
		BodyHTML:  bodyHTML,
		BodyText:  htmlToText(bodyHTML),
		Kind:      "booking_confirmation",
		Provider:  ProviderSendGrid,
	}
	if err := e.store.EnqueueEmail(ctx, email); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"emailId":            email.ID,
			"to":                 to,
			"subject":            subject,
			"confirmationNumber": confirmationNumber,
			"status":             email.Status,
		},
	}
}

func (e *Executor) executeSendQuotationEmail(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	to, _ := args["to"].(string)
	if to == "" {
		return &ToolResult{Success: false, Error: "to is required"}
	}
	guestName, _ := args["guestName"].(string)
	if guestName == "" {
		return &ToolResult{Success: false, Error: "guestName is required"}
	}
	items := parseLineItems(args["items"])
	if len(items) == 0 {
		return &ToolResult{Success: false, Error: "items is required"}
	}
	validUntil, _ := args["validUntil"].(string)

	var total float64
	for _, line := range items {
		total += float64(line.Quantity) * line.Price
	}

	subject := fmt.Sprintf("Your quotation - %d item(s)", len(items))
	bodyHTML := quotationHTML(guestName, items, total, validUntil)

	email := &store.OutboundEmail{
		TenantID:  execCtx.TenantID,
		Recipient: to,
		Subject:   subject,
		BodyHTML:  bodyHTML,
		BodyText:  htmlToText(bodyHTML),
		Kind:      "quotation",
		Provider:  ProviderSendGrid,
	}
	if err := e.store.EnqueueEmail(ctx, email); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"emailId": email.ID,
			"to":      to,
			"subject": subject,
			"total":   total,
			"status":  email.Status,
		},
	}
}

func bookingConfirmationHTML(guestName, checkIn, checkOut, roomType, confirmationNumber string) string {
	var b strings.Builder
	b.WriteString("<h2>Booking Confirmation</h2>")
	b.WriteString(fmt.Sprintf("<p>Dear %s,</p>", html.EscapeString(guestName)))
	b.WriteString("<p>Your reservation is confirmed. We look forward to welcoming you.</p>")
	b.WriteString("<ul>")
	b.WriteString(fmt.Sprintf("<li>Confirmation number: %s</li>", html.EscapeString(confirmationNumber)))
	b.WriteString(fmt.Sprintf("<li>Check-in: %s</li>", html.EscapeString(checkIn)))
	b.WriteString(fmt.Sprintf("<li>Check-out: %s</li>", html.EscapeString(checkOut)))
	if roomType != "" {
		b.WriteString(fmt.Sprintf("<li>Room: %s</li>", html.EscapeString(roomType)))
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Safe travels,<br>Your hosts</p>")
	return b.String()
}

func quotationHTML(guestName string, items []store.OrderLine, total float64, validUntil string) string {
	var b strings.Builder
	b.WriteString("<h2>Quotation</h2>")
	b.WriteString(fmt.Sprintf("<p>Dear %s,</p>", html.EscapeString(guestName)))
	b.WriteString("<p>Thank you for your enquiry. Please find our quotation below.</p>")
	b.WriteString("<table>")
	b.WriteString("<tr><th>Item</th><th>Qty</th><th>Price</th></tr>")
	for _, line := range items {
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%.2f</td></tr>",
			html.EscapeString(line.Name), line.Quantity, line.Price))
	}
	b.WriteString(fmt.Sprintf("<tr><td><strong>Total</strong></td><td></td><td><strong>%.2f</strong></td></tr>", total))
	b.WriteString("</table>")
	if validUntil != "" {
		b.WriteString(fmt.Sprintf("<p>This quotation is valid until %s.</p>", html.EscapeString(validUntil)))
	}
	b.WriteString("<p>Kind regards,<br>Your hosts</p>")
	return b.String()
}

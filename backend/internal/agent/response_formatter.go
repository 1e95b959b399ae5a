package agent

import (
	"fmt"
	"strings"

	"buffr-host/backend/internal/personality"
	"buffr-host/backend/internal/tools"
)

// fallbackResponse builds the templated reply used when no composer is
// configured or the model returned nothing usable.
func fallbackResponse(mood string, results []tools.ToolResult) string {
	parts := []string{moodOpener(mood)}
	if len(results) == 0 {
		parts = append(parts, "I've noted your request and will make sure the right team follows up.")
	} else {
		for _, result := range results {
			parts = append(parts, describeToolOutcome(result))
		}
	}
	return strings.Join(parts, " ")
}

func moodOpener(mood string) string {
	switch mood {
	case personality.MoodUpbeat:
		return "Happy to help!"
	case personality.MoodConcerned:
		return "I'm sorry about the trouble. Let me put this right."
	case personality.MoodAttentive:
		return "Right away."
	default:
		return "Thank you for reaching out."
	}
}

// describeToolOutcome turns one tool result into a guest-facing sentence.
func describeToolOutcome(result tools.ToolResult) string {
	if !result.Success {
		return fmt.Sprintf("I couldn't complete %s: %s.", humanToolName(result.ToolName), result.Error)
	}

	payload, ok := result.Result.(map[string]interface{})
	if !ok {
		return fmt.Sprintf("%s is done.", humanToolName(result.ToolName))
	}

	switch result.ToolName {
	case tools.ToolTakeRestaurantOrder:
		table, _ := payload["table"].(string)
		total, _ := payload["total"].(float64)
		return fmt.Sprintf("Your order for table %s is in. Total %.2f.", table, total)

	case tools.ToolExplainMenuItem:
		if explanation, ok := payload["explanation"].(string); ok && explanation != "" {
			return explanation
		}

	case tools.ToolGenerateInvoice:
		invoiceID, _ := payload["invoiceId"].(string)
		total, _ := payload["totalAmount"].(float64)
		currency, _ := payload["currency"].(string)
		return fmt.Sprintf("Invoice %s for %.2f %s has been issued.", invoiceID, total, currency)

	case tools.ToolGenerateReceipt:
		receiptID, _ := payload["receiptId"].(string)
		amount, _ := payload["amount"].(float64)
		currency, _ := payload["currency"].(string)
		return fmt.Sprintf("Payment received. Your receipt is %s for %.2f %s.", receiptID, amount, currency)

	case tools.ToolSendBookingConfirmationEmail:
		to, _ := payload["to"].(string)
		confirmation, _ := payload["confirmationNumber"].(string)
		return fmt.Sprintf("A booking confirmation (%s) is on its way to %s.", confirmation, to)

	case tools.ToolSendQuotationEmail:
		to, _ := payload["to"].(string)
		total, _ := payload["total"].(float64)
		return fmt.Sprintf("A quotation totalling %.2f has been emailed to %s.", total, to)

	case tools.ToolCreateCalendarEvent:
		title, _ := payload["title"].(string)
		startsAt, _ := payload["startsAt"].(string)
		return fmt.Sprintf("%q is on the calendar for %s.", title, startsAt)

	case tools.ToolInventoryCheckStock:
		sku, _ := payload["sku"].(string)
		quantity, _ := payload["quantity"].(int64)
		unit, _ := payload["unit"].(string)
		return fmt.Sprintf("We have %d %s of %s on hand.", quantity, unit, sku)

	case tools.ToolInventoryDeductStock, tools.ToolInventoryReplenishStock:
		sku, _ := payload["sku"].(string)
		quantity, _ := payload["quantity"].(int64)
		return fmt.Sprintf("Stock for %s is now %d.", sku, quantity)
	}

	return fmt.Sprintf("%s is done.", humanToolName(result.ToolName))
}

func humanToolName(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

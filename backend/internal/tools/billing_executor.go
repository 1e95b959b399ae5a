package tools

import (
	"context"
	"fmt"
	"time"

	"buffr-host/backend/internal/store"
)

// ============================================================================
// Billing Tool Implementations
// ============================================================================

func (e *Executor) executeGenerateInvoice(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	customerName, _ := args["customerName"].(string)
	if customerName == "" {
		customerName = "Guest"
	}
	currency, _ := args["currency"].(string)

	lines := parseLineItems(args["items"])
	var total float64
	if len(lines) > 0 {
		for _, line := range lines {
			total += float64(line.Quantity) * line.Price
		}
	} else {
		amount, ok := floatArg(args, "totalAmount")
		if !ok {
			return &ToolResult{Success: false, Error: "items or totalAmount is required"}
		}
		total = amount
	}

	invoice := &store.Invoice{
		ID:           fmt.Sprintf("inv_%d", time.Now().UnixNano()),
		TenantID:     execCtx.TenantID,
		CustomerName: customerName,
		Lines:        lines,
		TotalAmount:  total,
		Currency:     currency,
	}
	if err := e.store.InsertInvoice(ctx, invoice); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"invoiceId":    invoice.ID,
			"customerName": invoice.CustomerName,
			"totalAmount":  invoice.TotalAmount,
			"currency":     invoice.Currency,
			"status":       invoice.Status,
			"issuedAt":     invoice.IssuedAt.Format(time.RFC3339),
		},
	}
}

func (e *Executor) executeGenerateReceipt(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	invoiceID, _ := args["invoiceId"].(string)
	if invoiceID == "" {
		return &ToolResult{Success: false, Error: "invoiceId is required"}
	}
	method, _ := args["method"].(string)
	if method == "" {
		method = "card"
	}
	reference, _ := args["reference"].(string)

	invoice, err := e.store.GetInvoice(ctx, execCtx.TenantID, invoiceID)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	amount, ok := floatArg(args, "amount")
	if !ok {
		amount = invoice.TotalAmount
	}

	payment := &store.Payment{
		ID:        fmt.Sprintf("rcpt_%d", time.Now().UnixNano()),
		TenantID:  execCtx.TenantID,
		InvoiceID: invoice.ID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
	}
	if err := e.store.InsertPayment(ctx, payment); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"receiptId": payment.ID,
			"invoiceId": payment.InvoiceID,
			"amount":    payment.Amount,
			"currency":  invoice.Currency,
			"method":    payment.Method,
			"status":    "paid",
		},
	}
}

package tools

import (
	"context"
	"errors"
	"fmt"

	apperrors "buffr-host/backend/pkg/errors"
)

// ============================================================================
// Inventory Tool Implementations
// ============================================================================

func (e *Executor) executeInventoryCheckStock(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	sku, _ := args["sku"].(string)
	if sku == "" {
		return &ToolResult{Success: false, Error: "sku is required"}
	}

	item, err := e.store.GetInventoryItem(ctx, execCtx.TenantID, sku)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"sku":          item.SKU,
			"name":         item.Name,
			"quantity":     item.Quantity,
			"unit":         item.Unit,
			"reorderLevel": item.ReorderLevel,
			"belowReorder": item.Quantity <= item.ReorderLevel,
		},
	}
}

func (e *Executor) executeInventoryDeductStock(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	sku, _ := args["sku"].(string)
	if sku == "" {
		return &ToolResult{Success: false, Error: "sku is required"}
	}
	quantity, ok := intArg(args, "quantity")
	if !ok || quantity <= 0 {
		return &ToolResult{Success: false, Error: "quantity must be a positive integer"}
	}
	reason, _ := args["reason"].(string)
	if reason == "" {
		reason = "deduction"
	}

	item, err := e.store.AdjustStock(ctx, execCtx.TenantID, sku, -quantity, reason, e.actor(execCtx))
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientStock) {
			return &ToolResult{Success: false, Error: fmt.Sprintf("insufficient stock: %s", sku)}
		}
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"sku":          item.SKU,
			"quantity":     item.Quantity,
			"delta":        -quantity,
			"belowReorder": item.Quantity <= item.ReorderLevel,
		},
	}
}

func (e *Executor) executeInventoryReplenishStock(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	sku, _ := args["sku"].(string)
	if sku == "" {
		return &ToolResult{Success: false, Error: "sku is required"}
	}
	quantity, ok := intArg(args, "quantity")
	if !ok || quantity <= 0 {
		return &ToolResult{Success: false, Error: "quantity must be a positive integer"}
	}
	reason, _ := args["reason"].(string)
	if reason == "" {
		reason = "replenishment"
	}

	item, err := e.store.AdjustStock(ctx, execCtx.TenantID, sku, quantity, reason, e.actor(execCtx))
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"sku":          item.SKU,
			"quantity":     item.Quantity,
			"delta":        quantity,
			"belowReorder": item.Quantity <= item.ReorderLevel,
		},
	}
}

func (e *Executor) executeInventoryLowStockAlert(ctx context.Context, execCtx *ExecutionContext) *ToolResult {
	items, err := e.store.ListItemsBelowReorder(ctx, execCtx.TenantID)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	low := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		low = append(low, map[string]interface{}{
			"sku":          item.SKU,
			"name":         item.Name,
			"quantity":     item.Quantity,
			"unit":         item.Unit,
			"reorderLevel": item.ReorderLevel,
		})
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"count": len(low),
			"items": low,
		},
	}
}

func (e *Executor) executeInventoryReorderSuggestions(ctx context.Context, execCtx *ExecutionContext) *ToolResult {
	items, err := e.store.ListItemsBelowReorder(ctx, execCtx.TenantID)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	suggestions := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		suggested := item.ReorderQuantity
		if suggested <= 0 {
			// No configured batch size; restock to double the threshold.
			suggested = item.ReorderLevel*2 - item.Quantity
			if suggested < 1 {
				suggested = 1
			}
		}
		suggestions = append(suggestions, map[string]interface{}{
			"sku":               item.SKU,
			"name":              item.Name,
			"currentQuantity":   item.Quantity,
			"suggestedQuantity": suggested,
			"unit":              item.Unit,
		})
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"count":       len(suggestions),
			"suggestions": suggestions,
		},
	}
}

// actor names who moved stock in the movement ledger.
func (e *Executor) actor(execCtx *ExecutionContext) string {
	if execCtx.UserID != "" {
		return execCtx.UserID
	}
	return execCtx.AuthSubject
}

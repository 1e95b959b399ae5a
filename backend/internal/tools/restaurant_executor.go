package tools

import (
	"context"
	"fmt"
	"strings"

	"buffr-host/backend/internal/store"
	apperrors "buffr-host/backend/pkg/errors"
)

// ============================================================================
// Restaurant Tool Implementations
// ============================================================================

func (e *Executor) executeTakeRestaurantOrder(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	tableNumber, _ := args["tableNumber"].(string)
	if tableNumber == "" {
		return &ToolResult{Success: false, Error: "tableNumber is required"}
	}
	requested := parseLineItems(args["items"])
	if len(requested) == 0 {
		return &ToolResult{Success: false, Error: "items is required"}
	}
	notes, _ := args["notes"].(string)

	// Prices come from the menu, not from the model.
	lines := make([]store.OrderLine, 0, len(requested))
	var total float64
	for _, line := range requested {
		menuItem, err := e.store.GetMenuItem(ctx, execCtx.TenantID, line.Name)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return &ToolResult{Success: false, Error: fmt.Sprintf("menu item not found: %s", line.Name)}
			}
			return &ToolResult{Success: false, Error: err.Error()}
		}
		if !menuItem.Available {
			return &ToolResult{Success: false, Error: fmt.Sprintf("menu item not available: %s", menuItem.Name)}
		}
		priced := store.OrderLine{Name: menuItem.Name, Quantity: line.Quantity, Price: menuItem.Price}
		total += float64(priced.Quantity) * priced.Price
		lines = append(lines, priced)
	}

	order := &store.RestaurantOrder{
		TenantID: execCtx.TenantID,
		Table:    tableNumber,
		Lines:    lines,
		Total:    total,
		Notes:    notes,
	}
	if err := e.store.InsertOrder(ctx, order); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"orderId": order.ID,
			"table":   order.Table,
			"lines":   order.Lines,
			"total":   order.Total,
			"station": order.Station,
			"status":  order.Status,
		},
	}
}

func (e *Executor) executeExplainMenuItem(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	name, _ := args["name"].(string)
	if name == "" {
		return &ToolResult{Success: false, Error: "name is required"}
	}

	item, err := e.store.GetMenuItem(ctx, execCtx.TenantID, name)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	parts := []string{}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	parts = append(parts, fmt.Sprintf("Priced at %.2f.", item.Price))
	if len(item.Allergens) > 0 {
		parts = append(parts, fmt.Sprintf("Contains: %s.", strings.Join(item.Allergens, ", ")))
	}
	if !item.Available {
		parts = append(parts, "Currently unavailable.")
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"name":        item.Name,
			"description": item.Description,
			"price":       item.Price,
			"category":    item.Category,
			"allergens":   item.Allergens,
			"available":   item.Available,
			"explanation": strings.Join(parts, " "),
		},
	}
}

// executeRouteOrder backs the three routing tools; they differ only in
// destination station.
func (e *Executor) executeRouteOrder(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}, station string) *ToolResult {
	orderID, _ := args["orderId"].(string)
	if orderID == "" {
		return &ToolResult{Success: false, Error: "orderId is required"}
	}

	order, err := e.store.UpdateOrderStation(ctx, execCtx.TenantID, orderID, station)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"orderId": order.ID,
			"table":   order.Table,
			"station": order.Station,
			"status":  order.Status,
		},
	}
}

package tools

import (
	"context"
	"strings"
	"sync"
	"testing"
)

func TestExecutor_InventoryFlow(t *testing.T) {
	executor, mem := newTestExecutor(t)
	execCtx := authedContext()
	ctx := context.Background()

	seedInventoryItem(t, mem, "tenant-1", "TOWEL-BATH", 10, 4, 20)

	check := executor.Execute(ctx, execCtx, ToolInventoryCheckStock, `{"sku": "TOWEL-BATH"}`)
	if !check.Success {
		t.Fatalf("inventory_check_stock failed: %s", check.Error)
	}
	payload := resultPayload(t, check)
	if quantity, _ := payload["quantity"].(int64); quantity != 10 {
		t.Errorf("quantity = %v, want 10", payload["quantity"])
	}
	if below, _ := payload["belowReorder"].(bool); below {
		t.Error("10 on hand with reorder level 4 is not below reorder")
	}

	deducted := executor.Execute(ctx, execCtx, ToolInventoryDeductStock,
		`{"sku": "TOWEL-BATH", "quantity": 8, "reason": "room restock"}`)
	if !deducted.Success {
		t.Fatalf("inventory_deduct_stock failed: %s", deducted.Error)
	}
	payload = resultPayload(t, deducted)
	if quantity, _ := payload["quantity"].(int64); quantity != 2 {
		t.Errorf("quantity = %v, want 2 after deducting 8", payload["quantity"])
	}
	if below, _ := payload["belowReorder"].(bool); !below {
		t.Error("2 on hand with reorder level 4 should report belowReorder")
	}

	over := executor.Execute(ctx, execCtx, ToolInventoryDeductStock, `{"sku": "TOWEL-BATH", "quantity": 5}`)
	if over.Success {
		t.Error("deducting past zero must fail")
	}
	if !strings.Contains(over.Error, "insufficient stock") {
		t.Errorf("error = %q", over.Error)
	}

	replenished := executor.Execute(ctx, execCtx, ToolInventoryReplenishStock,
		`{"sku": "TOWEL-BATH", "quantity": 20, "reason": "delivery 4417"}`)
	if !replenished.Success {
		t.Fatalf("inventory_replenish_stock failed: %s", replenished.Error)
	}
	if payload := resultPayload(t, replenished); payload["quantity"].(int64) != 22 {
		t.Errorf("quantity = %v, want 22 after replenishing", payload["quantity"])
	}

	movements, err := mem.ListStockMovements(ctx, "tenant-1", "TOWEL-BATH", 10)
	if err != nil {
		t.Fatalf("listing movements: %v", err)
	}
	// The rejected deduction must not appear in the ledger.
	if len(movements) != 2 {
		t.Fatalf("movement count = %d, want 2", len(movements))
	}
	if movements[0].Delta != 20 || movements[1].Delta != -8 {
		t.Errorf("movement deltas = %d, %d; want 20 then -8 newest-first", movements[0].Delta, movements[1].Delta)
	}
}

func TestExecutor_InventoryValidation(t *testing.T) {
	executor, _ := newTestExecutor(t)
	execCtx := authedContext()
	ctx := context.Background()

	missing := executor.Execute(ctx, execCtx, ToolInventoryCheckStock, `{"sku": "NO-SUCH-SKU"}`)
	if missing.Success {
		t.Error("checking an unknown SKU must fail")
	}
	if !strings.Contains(missing.Error, "not found") {
		t.Errorf("error = %q", missing.Error)
	}

	for _, payload := range []string{
		`{"sku": "TOWEL-BATH"}`,
		`{"sku": "TOWEL-BATH", "quantity": 0}`,
		`{"sku": "TOWEL-BATH", "quantity": -2}`,
		`{"sku": "TOWEL-BATH", "quantity": "three"}`,
	} {
		result := executor.Execute(ctx, execCtx, ToolInventoryDeductStock, payload)
		if result.Success {
			t.Errorf("payload %s must be rejected", payload)
		}
		if result.Error != "quantity must be a positive integer" {
			t.Errorf("payload %s: error = %q", payload, result.Error)
		}
	}
}

// Two racing deductions of the last unit: exactly one wins, the loser gets
// an insufficient stock report, and the counter never goes negative.
func TestExecutor_ConcurrentDeductions_ExactlyOneWins(t *testing.T) {
	executor, mem := newTestExecutor(t)
	execCtx := authedContext()

	seedInventoryItem(t, mem, "tenant-1", "GIN-BOT", 1, 0, 12)

	const workers = 8
	results := make(chan *ToolResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- executor.Execute(context.Background(), execCtx, ToolInventoryDeductStock,
				`{"sku": "GIN-BOT", "quantity": 1}`)
		}()
	}
	wg.Wait()
	close(results)

	var wins, insufficient int
	for result := range results {
		if result.Success {
			wins++
			continue
		}
		if strings.Contains(result.Error, "insufficient stock") {
			insufficient++
			continue
		}
		t.Errorf("unexpected failure: %s", result.Error)
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if insufficient != workers-1 {
		t.Errorf("insufficient = %d, want %d", insufficient, workers-1)
	}

	check := executor.Execute(context.Background(), execCtx, ToolInventoryCheckStock, `{"sku": "GIN-BOT"}`)
	if quantity := resultPayload(t, check)["quantity"].(int64); quantity != 0 {
		t.Errorf("quantity = %d, want 0 after the winning deduction", quantity)
	}
}

func TestExecutor_LowStockReporting(t *testing.T) {
	executor, mem := newTestExecutor(t)
	execCtx := authedContext()
	ctx := context.Background()

	seedInventoryItem(t, mem, "tenant-1", "GIN-BOT", 2, 5, 12)
	seedInventoryItem(t, mem, "tenant-1", "TOWEL-BATH", 3, 6, 0)
	seedInventoryItem(t, mem, "tenant-1", "SOAP-BAR", 50, 10, 100)

	alert := executor.Execute(ctx, execCtx, ToolInventoryLowStockAlert, "{}")
	if !alert.Success {
		t.Fatalf("inventory_low_stock_alert failed: %s", alert.Error)
	}
	payload := resultPayload(t, alert)
	if count, _ := payload["count"].(int); count != 2 {
		t.Fatalf("count = %v, want 2", payload["count"])
	}
	items, _ := payload["items"].([]map[string]interface{})
	if len(items) != 2 || items[0]["sku"] != "GIN-BOT" || items[1]["sku"] != "TOWEL-BATH" {
		t.Errorf("items = %v, want GIN-BOT then TOWEL-BATH", items)
	}

	suggested := executor.Execute(ctx, execCtx, ToolInventoryReorderSuggestions, "{}")
	if !suggested.Success {
		t.Fatalf("inventory_reorder_suggestions failed: %s", suggested.Error)
	}
	suggestions, _ := resultPayload(t, suggested)["suggestions"].([]map[string]interface{})
	if len(suggestions) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(suggestions))
	}
	// GIN-BOT has a configured batch size; TOWEL-BATH falls back to
	// restocking to double its reorder level.
	if qty := suggestions[0]["suggestedQuantity"].(int64); qty != 12 {
		t.Errorf("GIN-BOT suggestion = %d, want 12", qty)
	}
	if qty := suggestions[1]["suggestedQuantity"].(int64); qty != 9 {
		t.Errorf("TOWEL-BATH suggestion = %d, want 9", qty)
	}
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"buffr-host/backend/internal/adapter"
	"buffr-host/backend/internal/store"
	apperrors "buffr-host/backend/pkg/errors"
	"buffr-host/backend/pkg/logger"
)

// Composer drafts text through the language model. The marketing tools use
// it; a nil composer degrades them to template output.
type Composer interface {
	Generate(ctx context.Context, systemPrompt, userMsg string, tools []adapter.Tool) (*adapter.Response, error)
}

// ExecutionContext carries tenancy and auth for one tool invocation.
type ExecutionContext struct {
	TenantID    string
	PropertyID  string
	UserID      string
	AuthSubject string
	Scopes      []string
}

func (c *ExecutionContext) hasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ToolResult is the uniform report every invocation produces. Failures are
// reported inside the envelope; Execute never returns an error.
type ToolResult struct {
	Success    bool        `json:"success"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	ToolName   string      `json:"toolName"`
	ExecutedAt time.Time   `json:"executedAt"`
}

// Executor dispatches tool invocations to their handlers.
type Executor struct {
	registry *Registry
	store    store.Store
	composer Composer
	timeout  time.Duration
	logger   *zap.Logger
}

// NewExecutor creates a tool executor. timeout bounds each invocation;
// zero or negative falls back to 15 seconds.
func NewExecutor(registry *Registry, st store.Store, composer Composer, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Executor{
		registry: registry,
		store:    st,
		composer: composer,
		timeout:  timeout,
		logger:   logger.Named("tools"),
	}
}

// Registry returns the catalog this executor dispatches against.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute runs one tool invocation and returns its report. The report's
// ToolName always equals the requested name, whatever the outcome.
func (e *Executor) Execute(ctx context.Context, execCtx *ExecutionContext, toolName, argumentsJSON string) *ToolResult {
	if execCtx == nil {
		execCtx = &ExecutionContext{}
	}

	e.logger.Debug("Executing tool",
		zap.String("tool", toolName),
		zap.String("tenant_id", execCtx.TenantID),
		zap.String("user_id", execCtx.UserID),
	)

	result := e.run(ctx, execCtx, toolName, argumentsJSON)
	result.ToolName = toolName
	result.ExecutedAt = time.Now().UTC()

	if !result.Success {
		e.logger.Warn("Tool failed",
			zap.String("tool", toolName),
			zap.String("error", result.Error),
		)
	}
	return result
}

func (e *Executor) run(ctx context.Context, execCtx *ExecutionContext, toolName, argumentsJSON string) *ToolResult {
	descriptor, err := e.registry.Find(toolName)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Unknown tool: %s", toolName)}
	}

	args, err := parseArguments(argumentsJSON)
	if err != nil {
		return &ToolResult{Success: false, Error: apperrors.NewInvalidArguments(toolName, err).Error()}
	}

	if err := e.authorize(descriptor, execCtx); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return e.dispatch(ctx, execCtx, toolName, args)
}

// authorize gates tools that demand authentication: the execution context
// must carry a subject and every scope the descriptor lists.
func (e *Executor) authorize(descriptor *ToolDescriptor, execCtx *ExecutionContext) error {
	if !descriptor.RequiresAuth {
		return nil
	}
	if execCtx.AuthSubject == "" {
		return apperrors.NewAuthRequired(descriptor.Name)
	}
	for _, scope := range descriptor.Scopes {
		if !execCtx.hasScope(scope) {
			return apperrors.NewMissingScope(descriptor.Name, scope)
		}
	}
	return nil
}

// dispatch routes to the handler. A panicking handler is converted into a
// failure report instead of unwinding past Execute.
func (e *Executor) dispatch(ctx context.Context, execCtx *ExecutionContext, toolName string, args map[string]interface{}) (result *ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Tool handler panicked",
				zap.String("tool", toolName),
				zap.Any("panic", r),
			)
			result = &ToolResult{
				Success: false,
				Error:   apperrors.NewToolHandlerFailure(toolName, "handler panicked", nil).Error(),
			}
		}
	}()

	switch toolName {
	// Guest Email Tools
	case ToolSendBookingConfirmationEmail:
		return e.executeSendBookingConfirmationEmail(ctx, execCtx, args)
	case ToolSendQuotationEmail:
		return e.executeSendQuotationEmail(ctx, execCtx, args)

	// Calendar Tools
	case ToolCreateCalendarEvent:
		return e.executeCreateCalendarEvent(ctx, execCtx, args)

	// Marketing Tools
	case ToolGenerateMarketingEmail:
		return e.executeGenerateMarketingEmail(ctx, execCtx, args)
	case ToolCreateCampaign:
		return e.executeCreateCampaign(ctx, execCtx, args)

	// Restaurant Tools
	case ToolTakeRestaurantOrder:
		return e.executeTakeRestaurantOrder(ctx, execCtx, args)
	case ToolExplainMenuItem:
		return e.executeExplainMenuItem(ctx, execCtx, args)
	case ToolRouteOrderToKitchen:
		return e.executeRouteOrder(ctx, execCtx, args, StationKitchen)
	case ToolRouteOrderToBar:
		return e.executeRouteOrder(ctx, execCtx, args, StationBar)
	case ToolRouteOrderToFrontdesk:
		return e.executeRouteOrder(ctx, execCtx, args, StationFrontdesk)

	// Inventory Tools
	case ToolInventoryCheckStock:
		return e.executeInventoryCheckStock(ctx, execCtx, args)
	case ToolInventoryDeductStock:
		return e.executeInventoryDeductStock(ctx, execCtx, args)
	case ToolInventoryReplenishStock:
		return e.executeInventoryReplenishStock(ctx, execCtx, args)
	case ToolInventoryLowStockAlert:
		return e.executeInventoryLowStockAlert(ctx, execCtx)
	case ToolInventoryReorderSuggestions:
		return e.executeInventoryReorderSuggestions(ctx, execCtx)

	// Billing Tools
	case ToolGenerateInvoice:
		return e.executeGenerateInvoice(ctx, execCtx, args)
	case ToolGenerateReceipt:
		return e.executeGenerateReceipt(ctx, execCtx, args)

	default:
		// Find already filtered unknown names; this catches a catalog
		// entry with no handler wired.
		e.logger.Warn("Unknown tool", zap.String("tool", toolName))
		return &ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown tool: %s", toolName),
		}
	}
}

// parseArguments decodes the model-supplied argument payload. Empty and
// "null" payloads mean no arguments; anything that is not a JSON object
// is rejected.
func parseArguments(raw string) (map[string]interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return args, nil
}

// intArg reads a numeric argument as an integer. JSON numbers decode as
// float64, so both forms are accepted.
func intArg(args map[string]interface{}, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// floatArg reads a numeric argument as a float.
func floatArg(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// parseLineItems converts an items argument into order lines. Entries
// without a name are dropped; quantity defaults to 1.
func parseLineItems(raw interface{}) []store.OrderLine {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	lines := make([]store.OrderLine, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		line := store.OrderLine{Quantity: 1}
		line.Name, _ = m["name"].(string)
		if line.Name == "" {
			continue
		}
		if q, ok := m["quantity"].(float64); ok && q > 0 {
			line.Quantity = int(q)
		}
		if p, ok := m["price"].(float64); ok {
			line.Price = p
		}
		lines = append(lines, line)
	}
	return lines
}

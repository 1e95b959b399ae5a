package tools

import (
	"context"
	"fmt"
	"time"

	"buffr-host/backend/internal/store"
)

// ============================================================================
// Calendar Tool Implementations
// ============================================================================

func (e *Executor) executeCreateCalendarEvent(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	title, _ := args["title"].(string)
	if title == "" {
		return &ToolResult{Success: false, Error: "title is required"}
	}
	startRaw, _ := args["startTime"].(string)
	if startRaw == "" {
		return &ToolResult{Success: false, Error: "startTime is required"}
	}
	startsAt, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return &ToolResult{Success: false, Error: "startTime must be an RFC3339 timestamp"}
	}

	endsAt := startsAt.Add(time.Hour)
	if endRaw, ok := args["endTime"].(string); ok && endRaw != "" {
		endsAt, err = time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return &ToolResult{Success: false, Error: "endTime must be an RFC3339 timestamp"}
		}
		if !endsAt.After(startsAt) {
			return &ToolResult{Success: false, Error: "endTime must be after startTime"}
		}
	}

	location, _ := args["location"].(string)

	var attendees []string
	if attendeesArg, ok := args["attendees"].([]interface{}); ok {
		for _, a := range attendeesArg {
			if addr, ok := a.(string); ok && addr != "" {
				attendees = append(attendees, addr)
			}
		}
	}

	event := &store.CalendarEvent{
		TenantID:  execCtx.TenantID,
		Title:     title,
		Location:  location,
		StartsAt:  startsAt.UTC(),
		EndsAt:    endsAt.UTC(),
		Attendees: attendees,
		Provider:  ProviderGoogleCalendar,
	}
	if err := e.store.InsertCalendarEvent(ctx, event); err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}

	return &ToolResult{
		Success: true,
		Result: map[string]interface{}{
			"eventId":   event.ID,
			"title":     event.Title,
			"startsAt":  event.StartsAt.Format(time.RFC3339),
			"endsAt":    event.EndsAt.Format(time.RFC3339),
			"attendees": len(attendees),
			"htmlLink":  fmt.Sprintf("https://calendar.google.com/calendar/event?eid=%s", event.ID),
			"status":    "confirmed",
		},
	}
}

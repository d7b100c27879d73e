package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// ClassifyRequest represents the arguments for email_classify.
type ClassifyRequest struct {
	CustomerID string   `json:"customer_id,omitempty"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Tags       []string `json:"tags,omitempty"`
	Mode       string   `json:"mode,omitempty"`
}

// CustomerRequest represents the arguments for tools addressed by customer.
type CustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

// ListEmailsRequest represents the arguments for email_list.
type ListEmailsRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
	Tag        string `json:"tag,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// GetEmailRequest represents the arguments for email_get.
type GetEmailRequest struct {
	ID string `json:"id"`
}

// PatternsRequest represents the arguments for pattern_list.
type PatternsRequest struct {
	Tag string `json:"tag,omitempty"`
}

// HandleClassify handles the email_classify tool call.
func (h *Handlers) HandleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ClassifyRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Classify(ctx, h.env, ops.ClassifyInput{
		CustomerID: input.CustomerID,
		Subject:    input.Subject,
		Body:       input.Body,
		Tags:       input.Tags,
		Mode:       input.Mode,
	})
	if err != nil {
		return h.fail("email_classify", err), nil
	}

	return successResult(result)
}

// HandleSample handles the email_sample tool call.
func (h *Handlers) HandleSample(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CustomerRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Sample(ctx, h.env, input.CustomerID)
	if err != nil {
		return h.fail("email_sample", err), nil
	}

	return successResult(result)
}

// HandleListEmails handles the email_list tool call.
func (h *Handlers) HandleListEmails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListEmailsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ListEmails(ctx, h.env, ops.ListEmailsInput{
		CustomerID: input.CustomerID,
		Tag:        input.Tag,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return h.fail("email_list", err), nil
	}

	return successResult(result)
}

// HandleGetEmail handles the email_get tool call.
func (h *Handlers) HandleGetEmail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetEmailRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.GetEmail(ctx, h.env, input.ID)
	if err != nil {
		return h.fail("email_get", err), nil
	}

	return successResult(result)
}

// HandleCustomers handles the customer_list tool call.
func (h *Handlers) HandleCustomers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Customers(h.env))
}

// HandleCustomerTags handles the customer_tags tool call.
func (h *Handlers) HandleCustomerTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CustomerRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.TagsFor(h.env, input.CustomerID)
	if err != nil {
		return h.fail("customer_tags", err), nil
	}

	return successResult(result)
}

// HandlePatterns handles the pattern_list tool call.
func (h *Handlers) HandlePatterns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PatternsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Patterns(h.env, input.Tag)
	if err != nil {
		return h.fail("pattern_list", err), nil
	}

	return successResult(result)
}

// HandleAntiPatterns handles the pattern_antipatterns tool call.
func (h *Handlers) HandleAntiPatterns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.AntiPatterns(h.env))
}

// HandleMetrics handles the metrics_summary tool call.
func (h *Handlers) HandleMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Metrics(ctx, h.env)
	if err != nil {
		return h.fail("metrics_summary", err), nil
	}

	return successResult(result)
}

// fail logs internal errors with their cause before converting them.
func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, errors.ErrInternal) {
		h.env.Log.Error("tool failed", "tool", tool, "error", err)
	} else {
		h.env.Log.Debug("tool rejected request", "tool", tool, "error", err)
	}
	return errorResult(err)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var mErr *errors.MailtagError
	if stderrors.As(err, &mErr) {
		// Keep any wrapping context ("items[2]: ...") in front of the message.
		msg := strings.TrimSuffix(err.Error(), mErr.Error()) + mErr.Message
		errorObj := map[string]any{
			"code":    mErr.Code,
			"message": msg,
			"status":  mErr.Status,
		}
		if mErr.Code != errors.ErrInternal && mErr.Details != nil {
			errorObj["details"] = mErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

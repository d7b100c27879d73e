package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/mailtag/internal/config"
	"github.com/hpungsan/mailtag/internal/errors"
	"github.com/hpungsan/mailtag/internal/ops"
)

// testSetup builds an environment over the built-in dataset.
func testSetup(t *testing.T) *ops.Env {
	t.Helper()

	env, err := ops.NewEnv(context.Background(), config.DefaultConfig(), ops.EnvOptions{
		Rand: mrand.New(mrand.NewPCG(7, 7)),
	})
	if err != nil {
		t.Fatalf("failed to build env: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestHandleClassify(t *testing.T) {
	h := NewHandlers(testSetup(t))
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
		wantTag   string
	}{
		{
			name: "classify for customer",
			args: map[string]any{
				"customer_id": "customer_B",
				"subject":     "Locked out",
				"body":        "My login stopped working",
			},
			wantTag: "Account Issue",
		},
		{
			name: "explicit tags with highest mode",
			args: map[string]any{
				"tags":    []any{"Billing", "General Inquiry"},
				"subject": "payment",
				"body":    "how to pay",
				"mode":    "highest",
			},
			wantTag: "Billing",
		},
		{
			name: "missing body",
			args: map[string]any{
				"customer_id": "customer_A",
				"subject":     "hello",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "unknown customer",
			args: map[string]any{
				"customer_id": "customer_Z",
				"subject":     "hello",
				"body":        "world",
			},
			wantError: true,
			errorCode: "NOT_FOUND",
		},
		{
			name: "wrong argument type",
			args: map[string]any{
				"customer_id": 42,
				"subject":     "hello",
				"body":        "world",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "misspelled argument",
			args: map[string]any{
				"customer": "customer_A",
				"subject":  "hello",
				"body":     "world",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "tag outside customer",
			args: map[string]any{
				"customer_id": "customer_A",
				"tags":        []any{"Bug Report"},
				"subject":     "hello",
				"body":        "world",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleClassify(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
				return
			}

			output := parseOutput(t, result)
			if output["tag"] != tt.wantTag {
				t.Errorf("tag = %v, want %q", output["tag"], tt.wantTag)
			}
			if id, _ := output["id"].(string); len(id) != 26 {
				t.Errorf("id = %v, want a 26-char ULID", output["id"])
			}
			if _, ok := output["needs_review"]; !ok {
				t.Error("needs_review missing from output")
			}
		})
	}
}

func TestHandleClassify_CanceledContext(t *testing.T) {
	h := NewHandlers(testSetup(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.HandleClassify(ctx, makeRequest(map[string]any{
		"customer_id": "customer_A",
		"subject":     "refund",
		"body":        "please",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "CANCELED")
}

func TestHandleSample(t *testing.T) {
	h := NewHandlers(testSetup(t))
	ctx := context.Background()

	result, err := h.HandleSample(ctx, makeRequest(map[string]any{"customer_id": "customer_C"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	email := output["email"].(map[string]any)
	if email["customer_id"] != "customer_C" {
		t.Errorf("sample customer = %v, want customer_C", email["customer_id"])
	}

	result, _ = h.HandleSample(ctx, makeRequest(map[string]any{}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleListEmails(t *testing.T) {
	h := NewHandlers(testSetup(t))
	ctx := context.Background()

	result, err := h.HandleListEmails(ctx, makeRequest(map[string]any{
		"customer_id": "customer_A",
		"limit":       5,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)

	items := output["items"].([]any)
	if len(items) != 5 {
		t.Errorf("len(items) = %d, want 5", len(items))
	}
	pagination := output["pagination"].(map[string]any)
	if pagination["total"] != float64(13) {
		t.Errorf("total = %v, want 13", pagination["total"])
	}
	if pagination["has_more"] != true {
		t.Errorf("has_more = %v, want true", pagination["has_more"])
	}

	result, _ = h.HandleListEmails(ctx, makeRequest(map[string]any{"tag": "Spam"}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleGetEmail(t *testing.T) {
	h := NewHandlers(testSetup(t))
	ctx := context.Background()

	result, err := h.HandleGetEmail(ctx, makeRequest(map[string]any{"id": "14"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["customer_id"] != "customer_B" {
		t.Errorf("customer_id = %v, want customer_B", output["customer_id"])
	}

	result, _ = h.HandleGetEmail(ctx, makeRequest(map[string]any{"id": "999"}))
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleCustomers(t *testing.T) {
	h := NewHandlers(testSetup(t))

	result, err := h.HandleCustomers(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	items := parseOutput(t, result)["items"].([]any)
	if len(items) != 3 {
		t.Errorf("len(items) = %d, want 3", len(items))
	}
}

func TestHandleCustomerTags(t *testing.T) {
	h := NewHandlers(testSetup(t))
	ctx := context.Background()

	result, err := h.HandleCustomerTags(ctx, makeRequest(map[string]any{"customer_id": "customer_A"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	tags := parseOutput(t, result)["tags"].([]any)
	want := []string{"Billing", "Technical Support", "Feature Request"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %v, want %q", i, tags[i], want[i])
		}
	}

	result, _ = h.HandleCustomerTags(ctx, makeRequest(map[string]any{"customer_id": "nobody"}))
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandlePatterns(t *testing.T) {
	h := NewHandlers(testSetup(t))
	ctx := context.Background()

	result, err := h.HandlePatterns(ctx, makeRequest(map[string]any{"tag": "Bug Report"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	items := parseOutput(t, result)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	result, err = h.HandleAntiPatterns(ctx, makeRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if items := parseOutput(t, result)["items"].([]any); len(items) != 8 {
		t.Errorf("len(anti-patterns) = %d, want 8", len(items))
	}
}

func TestHandleMetrics(t *testing.T) {
	h := NewHandlers(testSetup(t))

	result, err := h.HandleMetrics(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["total_emails"] != float64(40) {
		t.Errorf("total_emails = %v, want 40", output["total_emails"])
	}
	if output["tag_leakage"] != float64(0) {
		t.Errorf("tag_leakage = %v, want 0", output["tag_leakage"])
	}
	if pairs := output["confusion_pairs"].([]any); len(pairs) != 4 {
		t.Errorf("len(confusion_pairs) = %d, want 4", len(pairs))
	}
}

func TestServerRegistration(t *testing.T) {
	s := NewServer(testSetup(t), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"email_classify",
		"email_sample",
		"email_list",
		"email_get",
		"customer_list",
		"customer_tags",
		"pattern_list",
		"pattern_antipatterns",
		"metrics_summary",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	env := testSetup(t)
	env.Cfg.DisabledTools = []string{"email_sample", "metrics_summary", "email_sample"}

	tools := NewServer(env, "test").ListTools()
	if len(tools) != 7 {
		t.Errorf("registered tool count = %d, want 7", len(tools))
	}
	for _, name := range []string{"email_sample", "metrics_summary"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
	if _, ok := tools["email_classify"]; !ok {
		t.Error("core tool email_classify should be registered")
	}
}

func TestServerRegistration_WithDisabledTypes(t *testing.T) {
	env := testSetup(t)
	env.Cfg.DisabledTypes = []string{"pattern", "metrics"}

	tools := NewServer(env, "test").ListTools()
	if len(tools) != 6 {
		t.Errorf("registered tool count = %d, want 6", len(tools))
	}
	for name := range tools {
		if typ := GetTypeForTool(name); typ == "pattern" || typ == "metrics" {
			t.Errorf("tool %q of disabled type should not be registered", name)
		}
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	env := testSetup(t)
	env.Cfg.DisabledTools = AllToolNames()

	if tools := NewServer(env, "test").ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"email_sample", "metrics_summary"}, 0},
		{"one unknown", []string{"email_sample", "fake_tool"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if unknown := ValidateDisabledTools(tt.input); len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	if unknown := ValidateDisabledTypes([]string{"email", "inbox"}); len(unknown) != 1 || unknown[0] != "inbox" {
		t.Errorf("ValidateDisabledTypes() = %v, want [inbox]", unknown)
	}
}

func TestGetTypeForTool(t *testing.T) {
	tests := map[string]string{
		"email_classify":       "email",
		"pattern_antipatterns": "pattern",
		"noprefix":             "",
		"_leading":             "",
	}
	for in, want := range tests {
		if got := GetTypeForTool(in); got != want {
			t.Errorf("GetTypeForTool(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 9 {
		t.Errorf("AllToolNames() returned %d names, want 9", len(names))
	}
	for _, name := range names {
		if GetTypeForTool(name) == "" {
			t.Errorf("tool %q does not follow type_action naming", name)
		}
	}
	if unknown := ValidateDisabledTypes(uniqueTypes(names)); len(unknown) != 0 {
		t.Errorf("tool types not in KnownTypes: %v", unknown)
	}
}

func uniqueTypes(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		typ := GetTypeForTool(n)
		if !seen[typ] {
			seen[typ] = true
			out = append(out, typ)
		}
	}
	return out
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: no such table: emails")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := parseError(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_WrappedErrorPreservesContext(t *testing.T) {
	wrapped := fmt.Errorf("email 7: %w", errors.NewUnknownTag("Spam"))

	errObj := parseError(t, errorResult(wrapped))
	if errObj["code"] != string(errors.ErrInvalidRequest) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrInvalidRequest)
	}
	msg := errObj["message"].(string)
	if !strings.HasPrefix(msg, "email 7: ") || !strings.Contains(msg, `unknown tag: "Spam"`) {
		t.Errorf("message = %q, want wrapper context and original message", msg)
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	errObj := parseError(t, errorResult(errors.NewCustomerNotFound("customer_Z")))
	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	details, ok := errObj["details"].(map[string]any)
	if !ok || details["customer_id"] != "customer_Z" {
		t.Fatalf("details = %v, want customer_id", errObj["details"])
	}
}

func TestErrorResult_PlainError(t *testing.T) {
	errObj := parseError(t, errorResult(fmt.Errorf("boom")))
	if errObj["code"] != "INTERNAL" || errObj["message"] != "an internal error occurred" {
		t.Errorf("errObj = %v, want generic INTERNAL", errObj)
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

// parseError extracts the error object from an error result.
func parseError(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in payload: %v", payload)
	}
	return errObj
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if !result.IsError {
		t.Errorf("expected error result, got success: %s", extractErrorMessage(result))
		return
	}
	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}

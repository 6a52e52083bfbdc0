// internal/mcp/handlers.go
package mcp

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/docpilot/docpilot/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Operations is the pipeline surface the dispatcher routes into.
type Operations interface {
	Create(ctx context.Context, args schemas.CreateArgs) schemas.OperationResult
	Read(ctx context.Context, args schemas.ReadArgs) schemas.OperationResult
	Edit(ctx context.Context, args schemas.EditArgs) schemas.OperationResult
	Format(ctx context.Context, args schemas.FormatArgs) schemas.OperationResult
	CreateList(ctx context.Context, args schemas.ListStyleArgs) schemas.OperationResult
	InsertLink(ctx context.Context, args schemas.LinkArgs) schemas.OperationResult
	ChangeFont(ctx context.Context, args schemas.FontArgs) schemas.OperationResult
	SetAlignment(ctx context.Context, args schemas.AlignArgs) schemas.OperationResult
	Share(ctx context.Context, args schemas.ShareArgs) schemas.OperationResult
	Copy(ctx context.Context, args schemas.CopyArgs) schemas.OperationResult
	Delete(ctx context.Context, args schemas.DeleteArgs) schemas.OperationResult
	Download(ctx context.Context, args schemas.DownloadArgs) schemas.OperationResult
	VersionHistory(ctx context.Context, args schemas.VersionHistoryArgs) schemas.OperationResult
	List(ctx context.Context, args schemas.ListArgs) schemas.OperationResult
}

// Handlers coerces raw MCP arguments into typed, validated structs and
// translates pipeline results back into protocol content.
type Handlers struct {
	ops    Operations
	logger *zap.Logger
}

func NewHandlers(ops Operations, logger *zap.Logger) *Handlers {
	return &Handlers{ops: ops, logger: logger.Named("handlers")}
}

// -- argument coercion --

func strArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// intArg handles the float64 the JSON decoder produces for numbers.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// -- result translation --

// result folds an OperationResult into protocol content: the JSON-encoded
// payload on success, an IsError text result carrying the taxonomy message on
// failure. Handler errors are never returned as Go errors; the protocol error
// channel is reserved for transport failures.
func (h *Handlers) result(res schemas.OperationResult) (*mcp.CallToolResult, error) {
	if !res.OK() {
		h.logger.Debug("Returning tool error.",
			zap.String("op", res.Op), zap.String("code", string(res.Err.Code)))
		return mcp.NewToolResultError(res.Err.Error()), nil
	}
	data, err := json.Marshal(res.Payload)
	if err != nil {
		return mcp.NewToolResultError("failed to encode result payload: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func invalid(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
}

// -- handlers --

func (h *Handlers) Create(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.CreateArgs{
		Title:   strArg(args, "title"),
		Content: strArg(args, "content"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Create(ctx, a))
}

func (h *Handlers) Read(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := schemas.ReadArgs{DocumentID: strArg(req.GetArguments(), "document_id")}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Read(ctx, a))
}

func (h *Handlers) Edit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.EditArgs{
		DocumentID: strArg(args, "document_id"),
		Text:       strArg(args, "text"),
		Mode:       strArg(args, "mode"),
	}
	if a.Mode == "" {
		a.Mode = "append"
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Edit(ctx, a))
}

func (h *Handlers) Format(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.FormatArgs{
		DocumentID: strArg(args, "document_id"),
		Format:     strArg(args, "format"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Format(ctx, a))
}

func (h *Handlers) CreateList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.ListStyleArgs{
		DocumentID: strArg(args, "document_id"),
		Style:      strArg(args, "style"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.CreateList(ctx, a))
}

func (h *Handlers) InsertLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.LinkArgs{
		DocumentID: strArg(args, "document_id"),
		URL:        strArg(args, "url"),
		Text:       strArg(args, "text"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.InsertLink(ctx, a))
}

func (h *Handlers) ChangeFont(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.FontArgs{
		DocumentID: strArg(args, "document_id"),
		Family:     strArg(args, "family"),
		Size:       strArg(args, "size"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.ChangeFont(ctx, a))
}

func (h *Handlers) SetAlignment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.AlignArgs{
		DocumentID: strArg(args, "document_id"),
		Alignment:  strArg(args, "alignment"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.SetAlignment(ctx, a))
}

func (h *Handlers) Share(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.ShareArgs{
		DocumentID: strArg(args, "document_id"),
		Email:      strArg(args, "email"),
		Role:       strArg(args, "role"),
	}
	if a.Role == "" {
		a.Role = schemas.DefaultShareRole
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Share(ctx, a))
}

func (h *Handlers) Copy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.CopyArgs{
		DocumentID: strArg(args, "document_id"),
		Title:      strArg(args, "title"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Copy(ctx, a))
}

func (h *Handlers) Delete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.DeleteArgs{
		DocumentID: strArg(args, "document_id"),
		Permanent:  boolArg(args, "permanent"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Delete(ctx, a))
}

func (h *Handlers) Download(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.DownloadArgs{
		DocumentID: strArg(args, "document_id"),
		Format:     strArg(args, "format"),
	}
	if a.Format == "" {
		a.Format = schemas.DefaultDownloadFormat
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.Download(ctx, a))
}

func (h *Handlers) VersionHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := schemas.VersionHistoryArgs{DocumentID: strArg(req.GetArguments(), "document_id")}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.VersionHistory(ctx, a))
}

func (h *Handlers) List(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a := schemas.ListArgs{
		Query: strArg(args, "query"),
		Limit: intArg(args, "limit"),
	}
	if err := a.Validate(); err != nil {
		return invalid(err)
	}
	return h.result(h.ops.List(ctx, a))
}

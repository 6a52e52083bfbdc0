// internal/mcp/handlers_test.go
package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/docpilot/docpilot/api/schemas"
	"github.com/docpilot/docpilot/internal/docs"
)

// fakeOps records the typed arguments each handler produced and replays a
// scripted result.
type fakeOps struct {
	res    schemas.OperationResult
	calls  int
	create schemas.CreateArgs
	edit   schemas.EditArgs
	del    schemas.DeleteArgs
	share  schemas.ShareArgs
	dl     schemas.DownloadArgs
	list   schemas.ListArgs
}

var _ Operations = (*fakeOps)(nil)

func okResult(op string, payload any) schemas.OperationResult {
	return schemas.OperationResult{Op: op, RunID: "run-1", Payload: payload}
}

func (f *fakeOps) Create(ctx context.Context, a schemas.CreateArgs) schemas.OperationResult {
	f.calls++
	f.create = a
	return f.res
}

func (f *fakeOps) Read(ctx context.Context, a schemas.ReadArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) Edit(ctx context.Context, a schemas.EditArgs) schemas.OperationResult {
	f.calls++
	f.edit = a
	return f.res
}

func (f *fakeOps) Format(ctx context.Context, a schemas.FormatArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) CreateList(ctx context.Context, a schemas.ListStyleArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) InsertLink(ctx context.Context, a schemas.LinkArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) ChangeFont(ctx context.Context, a schemas.FontArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) SetAlignment(ctx context.Context, a schemas.AlignArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) Share(ctx context.Context, a schemas.ShareArgs) schemas.OperationResult {
	f.calls++
	f.share = a
	return f.res
}

func (f *fakeOps) Copy(ctx context.Context, a schemas.CopyArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) Delete(ctx context.Context, a schemas.DeleteArgs) schemas.OperationResult {
	f.calls++
	f.del = a
	return f.res
}

func (f *fakeOps) Download(ctx context.Context, a schemas.DownloadArgs) schemas.OperationResult {
	f.calls++
	f.dl = a
	return f.res
}

func (f *fakeOps) VersionHistory(ctx context.Context, a schemas.VersionHistoryArgs) schemas.OperationResult {
	f.calls++
	return f.res
}

func (f *fakeOps) List(ctx context.Context, a schemas.ListArgs) schemas.OperationResult {
	f.calls++
	f.list = a
	return f.res
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestCreateHandlerMarshalsPayload(t *testing.T) {
	ops := &fakeOps{res: okResult(docs.OpCreate, &schemas.CreateResult{
		DocumentID: "abc", URL: "https://docs.google.com/document/d/abc/edit", Title: "Notes",
	})}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	res, err := h.Create(context.Background(), request(map[string]any{"title": "Notes"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := textOf(t, res)
	assert.Contains(t, text, `"document_id":"abc"`)
	assert.Equal(t, "Notes", ops.create.Title)
}

func TestCreateHandlerRejectsMissingTitle(t *testing.T) {
	ops := &fakeOps{}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	res, err := h.Create(context.Background(), request(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "invalid arguments")
	assert.Zero(t, ops.calls, "validation failures must not reach the pipeline")
}

func TestPipelineFailureBecomesToolError(t *testing.T) {
	failed := schemas.OperationResult{Op: docs.OpDelete, RunID: "run-1"}
	failed.Err = schemas.WrapOp(docs.OpDelete,
		schemas.NewError(schemas.CodeUnsupported, "permanent deletion is not supported"))
	ops := &fakeOps{res: failed}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	res, err := h.Delete(context.Background(), request(map[string]any{
		"document_id": "abc", "permanent": true,
	}))
	require.NoError(t, err, "pipeline failures ride the IsError channel, not the protocol error")
	assert.True(t, res.IsError)
	text := textOf(t, res)
	assert.Contains(t, text, string(schemas.CodeUnsupported))
	assert.Contains(t, text, docs.OpDelete)
	assert.True(t, ops.del.Permanent)
}

func TestEditHandlerDefaultsMode(t *testing.T) {
	ops := &fakeOps{res: okResult(docs.OpEdit, &schemas.EditResult{Applied: true})}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	_, err := h.Edit(context.Background(), request(map[string]any{
		"document_id": "abc", "text": "hello",
	}))
	require.NoError(t, err)
	assert.Equal(t, "append", ops.edit.Mode)
}

func TestEditHandlerRejectsUnknownMode(t *testing.T) {
	ops := &fakeOps{}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	res, err := h.Edit(context.Background(), request(map[string]any{
		"document_id": "abc", "text": "hello", "mode": "prepend",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Zero(t, ops.calls)
}

func TestShareHandlerDefaultsRole(t *testing.T) {
	ops := &fakeOps{res: okResult(docs.OpShare, &schemas.ShareResult{Shared: true})}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	_, err := h.Share(context.Background(), request(map[string]any{
		"document_id": "abc", "email": "teammate@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, schemas.DefaultShareRole, ops.share.Role)
}

func TestDownloadHandlerDefaultsFormat(t *testing.T) {
	ops := &fakeOps{res: okResult(docs.OpDownload, &schemas.DownloadResult{Dispatched: true})}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	_, err := h.Download(context.Background(), request(map[string]any{"document_id": "abc"}))
	require.NoError(t, err)
	assert.Equal(t, schemas.DefaultDownloadFormat, ops.dl.Format)
}

func TestListHandlerCoercesNumericLimit(t *testing.T) {
	ops := &fakeOps{res: okResult(docs.OpList, &schemas.ListResult{})}
	h := NewHandlers(ops, zaptest.NewLogger(t))

	// JSON numbers decode as float64.
	_, err := h.List(context.Background(), request(map[string]any{
		"query": "meeting", "limit": float64(5),
	}))
	require.NoError(t, err)
	assert.Equal(t, 5, ops.list.Limit)
	assert.Equal(t, "meeting", ops.list.Query)
}

func TestNewServerDeclaresCatalog(t *testing.T) {
	ops := &fakeOps{}
	s := NewServer("1.2.3", ops, zaptest.NewLogger(t))
	require.NotNil(t, s)
	require.NotNil(t, s.mcp)
}

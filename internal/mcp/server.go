// internal/mcp/server.go
//
// The tool dispatcher boundary: declares the fourteen document tools to the
// calling agent over MCP stdio and routes validated arguments into the
// operation pipelines. Everything here is thin glue; no browser state lives
// in this package.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/docpilot/docpilot/api/schemas"
	"github.com/docpilot/docpilot/internal/docs"
)

const serverName = "docpilot"

// Server wraps the MCP stdio server with the docpilot tool catalog.
type Server struct {
	mcp *server.MCPServer
}

// NewServer declares the tool catalog and binds each tool to its handler.
func NewServer(version string, ops Operations, logger *zap.Logger) *Server {
	s := server.NewMCPServer(serverName, version)
	h := NewHandlers(ops, logger)

	s.AddTool(
		mcp.NewTool(docs.OpCreate,
			mcp.WithDescription("Create a new Google Doc with a title and optional initial content"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Title of the new document")),
			mcp.WithString("content", mcp.Description("Initial body text to type into the document")),
		),
		h.Create,
	)

	s.AddTool(
		mcp.NewTool(docs.OpRead,
			mcp.WithDescription("Read the title and body text of a document"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
		),
		h.Read,
	)

	s.AddTool(
		mcp.NewTool(docs.OpEdit,
			mcp.WithDescription("Type text into a document, appending at the end or replacing the whole body"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Text to type")),
			mcp.WithString("mode",
				mcp.Description("Edit mode"),
				mcp.Enum(schemas.EditModes...),
				mcp.DefaultString("append"),
			),
		),
		h.Edit,
	)

	s.AddTool(
		mcp.NewTool(docs.OpFormat,
			mcp.WithDescription("Apply a character format to the whole document"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("format", mcp.Required(),
				mcp.Description("Format to apply"),
				mcp.Enum(schemas.TextFormats...),
			),
		),
		h.Format,
	)

	s.AddTool(
		mcp.NewTool(docs.OpCreateList,
			mcp.WithDescription("Turn the document body into a bulleted or numbered list"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("style", mcp.Required(),
				mcp.Description("List style"),
				mcp.Enum(schemas.ListStyles...),
			),
		),
		h.CreateList,
	)

	s.AddTool(
		mcp.NewTool(docs.OpInsertLink,
			mcp.WithDescription("Insert a hyperlink at the end of the document"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("url", mcp.Required(), mcp.Description("Absolute link target (http/https)")),
			mcp.WithString("text", mcp.Description("Display text; the URL itself when omitted")),
		),
		h.InsertLink,
	)

	s.AddTool(
		mcp.NewTool(docs.OpChangeFont,
			mcp.WithDescription("Change the font family and/or size of the whole document"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("family", mcp.Description("Font family name, e.g. Roboto")),
			mcp.WithString("size", mcp.Description("Font size in points, e.g. 14")),
		),
		h.ChangeFont,
	)

	s.AddTool(
		mcp.NewTool(docs.OpSetAlignment,
			mcp.WithDescription("Set the paragraph alignment of the whole document"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("alignment", mcp.Required(),
				mcp.Description("Paragraph alignment"),
				mcp.Enum(schemas.Alignments...),
			),
		),
		h.SetAlignment,
	)

	s.AddTool(
		mcp.NewTool(docs.OpShare,
			mcp.WithDescription("Share a document with an email address"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("email", mcp.Required(), mcp.Description("Recipient email address")),
			mcp.WithString("role",
				mcp.Description("Access role for the recipient"),
				mcp.Enum(schemas.ShareRoles...),
				mcp.DefaultString(schemas.DefaultShareRole),
			),
		),
		h.Share,
	)

	s.AddTool(
		mcp.NewTool(docs.OpCopy,
			mcp.WithDescription("Duplicate a document via Make a copy"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Source document identifier")),
			mcp.WithString("title", mcp.Description("Title for the copy; Docs suggests one when omitted")),
		),
		h.Copy,
	)

	s.AddTool(
		mcp.NewTool(docs.OpDelete,
			mcp.WithDescription("Move a document to the bin. Permanent deletion is not supported."),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithBoolean("permanent", mcp.Description("Must be false; permanent erasure is rejected")),
		),
		h.Delete,
	)

	s.AddTool(
		mcp.NewTool(docs.OpDownload,
			mcp.WithDescription("Export a document through File → Download"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
			mcp.WithString("format",
				mcp.Description("Export format"),
				mcp.Enum(schemas.DownloadFormats...),
				mcp.DefaultString(schemas.DefaultDownloadFormat),
			),
		),
		h.Download,
	)

	s.AddTool(
		mcp.NewTool(docs.OpVersionHistory,
			mcp.WithDescription("Open the version history panel of a document"),
			mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
		),
		h.VersionHistory,
	)

	s.AddTool(
		mcp.NewTool(docs.OpList,
			mcp.WithDescription("List documents from the Docs home screen, optionally filtered by a search query"),
			mcp.WithString("query", mcp.Description("Search query; all documents when omitted")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of rows to return")),
		),
		h.List,
	)

	logger.Named("mcp").Info("Tool catalog declared.", zap.Int("tools", 14))
	return &Server{mcp: s}
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout until the
// transport closes. Logging must stay off stdout while this runs.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

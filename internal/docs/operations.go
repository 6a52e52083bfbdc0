// internal/docs/operations.go
package docs

import (
	"context"

	"github.com/docpilot/docpilot/api/schemas"
)

// Operation names as declared to the tool catalog.
const (
	OpCreate         = "create_document"
	OpRead           = "read_document"
	OpEdit           = "edit_document"
	OpFormat         = "format_text"
	OpCreateList     = "create_list"
	OpInsertLink     = "insert_link"
	OpChangeFont     = "change_font"
	OpSetAlignment   = "set_alignment"
	OpShare          = "share_document"
	OpCopy           = "copy_document"
	OpDelete         = "delete_document"
	OpDownload       = "download_document"
	OpVersionHistory = "version_history"
	OpList           = "list_documents"
)

const downloadNote = "export dispatch confirmed; file delivery is not observable from the page"

// Create opens a fresh document, names it, and optionally types initial
// content into the body.
func (p *Pipelines) Create(ctx context.Context, args schemas.CreateArgs) schemas.OperationResult {
	return p.run(ctx, OpCreate, func(ctx context.Context, st *runState) (any, error) {
		sess, err := p.manager.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		st.to(phaseNavigating)
		st.to(phaseResolving)
		surface, err := sess.ResolveEditor(ctx, CreateURL(p.cfg.Docs.BaseURL))
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if _, err := p.exec.Execute(ctx, surface, p.step("focus-title", titleInput, nil)); err != nil {
			return nil, err
		}
		// The title field arrives pre-filled with "Untitled document".
		if err := surface.SendChord(ctx, chordSelectAll); err != nil {
			return nil, err
		}
		if err := surface.TypeActive(ctx, args.Title); err != nil {
			return nil, err
		}
		// Enter commits the title and hands focus to the body.
		if err := surface.SendChord(ctx, chordEnter); err != nil {
			return nil, err
		}
		if err := surface.Settle(ctx, p.settle()); err != nil {
			return nil, err
		}
		if args.Content != "" {
			if err := surface.TypeActive(ctx, args.Content); err != nil {
				return nil, err
			}
			if err := surface.Settle(ctx, p.settle()); err != nil {
				return nil, err
			}
		}

		st.to(phaseExtracting)
		url, err := surface.Location(ctx)
		if err != nil {
			return nil, err
		}
		return &schemas.CreateResult{
			DocumentID: DocIDFromURL(url),
			URL:        url,
			Title:      args.Title,
		}, nil
	})
}

// Read extracts the rendered body text and title of a document.
func (p *Pipelines) Read(ctx context.Context, args schemas.ReadArgs) schemas.OperationResult {
	return p.run(ctx, OpRead, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseExtracting)
		content, err := surface.Text(ctx, editorContent)
		if err != nil {
			return nil, err
		}
		pageTitle, err := surface.Title(ctx)
		if err != nil {
			return nil, err
		}
		return &schemas.ReadResult{
			DocumentID: args.DocumentID,
			Title:      documentTitleFromPage(pageTitle),
			Content:    content,
		}, nil
	})
}

// Edit types text into the body, either appended at the end or replacing the
// whole document. Replacement works by typing over a full selection.
func (p *Pipelines) Edit(ctx context.Context, args schemas.EditArgs) schemas.OperationResult {
	return p.run(ctx, OpEdit, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		position := chordMoveToEnd
		if args.Mode == "replace" {
			position = chordSelectAll
		}
		if err := surface.SendChord(ctx, position); err != nil {
			return nil, err
		}
		if err := surface.Settle(ctx, p.settle()); err != nil {
			return nil, err
		}
		if err := surface.TypeActive(ctx, args.Text); err != nil {
			return nil, err
		}
		if err := surface.Settle(ctx, p.settle()); err != nil {
			return nil, err
		}
		return &schemas.EditResult{DocumentID: args.DocumentID, Mode: args.Mode, Applied: true}, nil
	})
}

// Format applies a character format to the whole document, via the toolbar
// control when present and the keyboard shortcut otherwise.
func (p *Pipelines) Format(ctx context.Context, args schemas.FormatArgs) schemas.OperationResult {
	return p.run(ctx, OpFormat, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.selectAll(ctx, surface); err != nil {
			return nil, err
		}
		chord := formatChords[args.Format]
		via, err := p.exec.Execute(ctx, surface,
			p.step("apply-"+args.Format, formatControls[args.Format], &chord))
		if err != nil {
			return nil, err
		}
		return &schemas.FormatResult{
			DocumentID: args.DocumentID,
			Format:     args.Format,
			Applied:    true,
			Via:        via,
		}, nil
	})
}

// CreateList turns the whole document into a bulleted or numbered list.
func (p *Pipelines) CreateList(ctx context.Context, args schemas.ListStyleArgs) schemas.OperationResult {
	return p.run(ctx, OpCreateList, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.selectAll(ctx, surface); err != nil {
			return nil, err
		}
		chord := listStyleChords[args.Style]
		via, err := p.exec.Execute(ctx, surface,
			p.step("apply-"+args.Style+"-list", schemas.Locator{}, &chord))
		if err != nil {
			return nil, err
		}
		return &schemas.ListStyleResult{
			DocumentID: args.DocumentID,
			Style:      args.Style,
			Applied:    true,
			Via:        via,
		}, nil
	})
}

// InsertLink appends a hyperlink at the end of the document through the link
// dialog (text field, URL field).
func (p *Pipelines) InsertLink(ctx context.Context, args schemas.LinkArgs) schemas.OperationResult {
	return p.run(ctx, OpInsertLink, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := surface.SendChord(ctx, chordMoveToEnd); err != nil {
			return nil, err
		}
		if _, err := p.exec.Execute(ctx, surface,
			p.step("open-link-dialog", schemas.Locator{}, &chordOpenLinkDialog)); err != nil {
			return nil, err
		}
		// With nothing selected the dialog focuses its text field first.
		if args.Text != "" {
			if err := surface.TypeActive(ctx, args.Text); err != nil {
				return nil, err
			}
		}
		if err := surface.SendChord(ctx, chordTab); err != nil {
			return nil, err
		}
		if err := surface.TypeActive(ctx, args.URL); err != nil {
			return nil, err
		}
		if err := surface.SendChord(ctx, chordEnter); err != nil {
			return nil, err
		}
		if err := surface.Settle(ctx, p.settle()); err != nil {
			return nil, err
		}
		return &schemas.LinkResult{
			DocumentID: args.DocumentID,
			URL:        args.URL,
			Text:       args.Text,
			Inserted:   true,
		}, nil
	})
}

// ChangeFont sets the font family and/or size for the whole document through
// the toolbar comboboxes.
func (p *Pipelines) ChangeFont(ctx context.Context, args schemas.FontArgs) schemas.OperationResult {
	return p.run(ctx, OpChangeFont, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.selectAll(ctx, surface); err != nil {
			return nil, err
		}
		if args.Family != "" {
			if err := p.typeIntoControl(ctx, surface, "set-font-family", fontFamilyControl, args.Family); err != nil {
				return nil, err
			}
		}
		if args.Size != "" {
			if err := p.typeIntoControl(ctx, surface, "set-font-size", fontSizeControl, args.Size); err != nil {
				return nil, err
			}
		}
		return &schemas.FontResult{
			DocumentID: args.DocumentID,
			Family:     args.Family,
			Size:       args.Size,
			Applied:    true,
		}, nil
	})
}

// typeIntoControl opens a toolbar combobox, types a value and confirms it.
func (p *Pipelines) typeIntoControl(ctx context.Context, surface schemas.Surface, name string, control schemas.Locator, value string) error {
	if _, err := p.exec.Execute(ctx, surface, p.step(name, control, nil)); err != nil {
		return err
	}
	if err := surface.TypeActive(ctx, value); err != nil {
		return err
	}
	if err := surface.SendChord(ctx, chordEnter); err != nil {
		return err
	}
	return surface.Settle(ctx, p.settle())
}

// SetAlignment applies a paragraph alignment to the whole document.
func (p *Pipelines) SetAlignment(ctx context.Context, args schemas.AlignArgs) schemas.OperationResult {
	return p.run(ctx, OpSetAlignment, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.selectAll(ctx, surface); err != nil {
			return nil, err
		}
		chord := alignmentChords[args.Alignment]
		via, err := p.exec.Execute(ctx, surface,
			p.step("align-"+args.Alignment, alignmentControls[args.Alignment], &chord))
		if err != nil {
			return nil, err
		}
		return &schemas.AlignResult{
			DocumentID: args.DocumentID,
			Alignment:  args.Alignment,
			Applied:    true,
			Via:        via,
		}, nil
	})
}

// Share invites an email address through the share dialog with the requested
// role.
func (p *Pipelines) Share(ctx context.Context, args schemas.ShareArgs) schemas.OperationResult {
	return p.run(ctx, OpShare, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if _, err := p.exec.Execute(ctx, surface, p.step("open-share-dialog", shareButton, nil)); err != nil {
			return nil, err
		}
		if err := surface.TypeActive(ctx, args.Email); err != nil {
			return nil, err
		}
		if err := surface.SendChord(ctx, chordEnter); err != nil {
			return nil, err
		}
		if err := surface.Settle(ctx, p.settle()); err != nil {
			return nil, err
		}
		if args.Role != schemas.DefaultShareRole {
			if _, err := p.exec.Execute(ctx, surface, p.step("open-role-menu", shareRoleControl, nil)); err != nil {
				return nil, err
			}
			if _, err := p.exec.Execute(ctx, surface, p.step("pick-role", shareRoleOption(args.Role), nil)); err != nil {
				return nil, err
			}
		}
		if _, err := p.exec.Execute(ctx, surface,
			p.step("send-invite", dialogButton("Send"), &chordEnter)); err != nil {
			return nil, err
		}
		return &schemas.ShareResult{
			DocumentID: args.DocumentID,
			Email:      args.Email,
			Role:       args.Role,
			Shared:     true,
		}, nil
	})
}

// Copy duplicates the document via File → Make a copy. The copy opens in a
// tab the session does not adopt, so its identifier is not reported.
func (p *Pipelines) Copy(ctx context.Context, args schemas.CopyArgs) schemas.OperationResult {
	return p.run(ctx, OpCopy, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.openFileMenu(ctx, surface); err != nil {
			return nil, err
		}
		if _, err := p.exec.Execute(ctx, surface, p.step("pick-make-a-copy", menuItem("Make a copy"), nil)); err != nil {
			return nil, err
		}
		if args.Title != "" {
			// The copy dialog's name field holds focus with the suggested name.
			if err := surface.SendChord(ctx, chordSelectAll); err != nil {
				return nil, err
			}
			if err := surface.TypeActive(ctx, args.Title); err != nil {
				return nil, err
			}
		}
		if _, err := p.exec.Execute(ctx, surface,
			p.step("confirm-copy", dialogButton("Make a copy"), &chordEnter)); err != nil {
			return nil, err
		}
		return &schemas.CopyResult{SourceID: args.DocumentID, Copied: true}, nil
	})
}

// Delete moves a document to the bin via the File menu. Permanent erasure is
// deliberately unsupported and rejected before any browser interaction.
func (p *Pipelines) Delete(ctx context.Context, args schemas.DeleteArgs) schemas.OperationResult {
	return p.run(ctx, OpDelete, func(ctx context.Context, st *runState) (any, error) {
		if args.Permanent {
			return nil, schemas.NewError(schemas.CodeUnsupported,
				"permanent deletion is not supported; documents are only moved to the bin")
		}

		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.openFileMenu(ctx, surface); err != nil {
			return nil, err
		}
		if _, err := p.exec.Execute(ctx, surface, p.step("pick-move-to-bin", trashMenuItem, nil)); err != nil {
			return nil, err
		}
		return &schemas.DeleteResult{DocumentID: args.DocumentID, Trashed: true}, nil
	})
}

// Download dispatches an export through File → Download. Only the dispatch is
// confirmed; where the browser puts the file is outside the page's view.
func (p *Pipelines) Download(ctx context.Context, args schemas.DownloadArgs) schemas.OperationResult {
	return p.run(ctx, OpDownload, func(ctx context.Context, st *runState) (any, error) {
		label, ok := downloadFormatLabels[args.Format]
		if !ok {
			return nil, schemas.NewError(schemas.CodeUnsupported,
				"no export menu entry for format %q", args.Format)
		}

		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.openFileMenu(ctx, surface); err != nil {
			return nil, err
		}
		if _, err := p.exec.Execute(ctx, surface, p.step("open-download-submenu", menuItem("Download"), nil)); err != nil {
			return nil, err
		}
		if _, err := p.exec.Execute(ctx, surface, p.step("pick-export-format", menuItem(label), nil)); err != nil {
			return nil, err
		}
		return &schemas.DownloadResult{
			DocumentID: args.DocumentID,
			Format:     args.Format,
			Dispatched: true,
			Note:       downloadNote,
		}, nil
	})
}

// VersionHistory opens the named-versions panel, via the File menu when its
// entry is present and the keyboard shortcut otherwise.
func (p *Pipelines) VersionHistory(ctx context.Context, args schemas.VersionHistoryArgs) schemas.OperationResult {
	return p.run(ctx, OpVersionHistory, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.editor(ctx, st, args.DocumentID)
		if err != nil {
			return nil, err
		}

		st.to(phaseActing)
		if err := p.openFileMenu(ctx, surface); err != nil {
			return nil, err
		}
		chord := chordVersionHistory
		via, err := p.exec.Execute(ctx, surface,
			p.step("open-version-history", menuItem("Version history"), &chord))
		if err != nil {
			return nil, err
		}
		if via == schemas.PathPrimary {
			// The menu entry opens a submenu; the chord goes straight through.
			if _, err := p.exec.Execute(ctx, surface,
				p.step("see-version-history", menuItem("See version history"), nil)); err != nil {
				return nil, err
			}
		}
		return &schemas.VersionHistoryResult{
			DocumentID: args.DocumentID,
			Opened:     true,
			Via:        via,
		}, nil
	})
}

// List enumerates the document home screen, optionally filtered by a search
// query, up to the requested limit in listing order.
func (p *Pipelines) List(ctx context.Context, args schemas.ListArgs) schemas.OperationResult {
	return p.run(ctx, OpList, func(ctx context.Context, st *runState) (any, error) {
		surface, err := p.listing(ctx, st, args.Query)
		if err != nil {
			return nil, err
		}

		st.to(phaseExtracting)
		rows, err := surface.Rows(ctx, schemas.Css(listingRowSelector))
		if err != nil {
			return nil, err
		}
		limit := args.Limit
		if limit <= 0 {
			limit = p.cfg.Docs.DefaultListLimit
		}
		if len(rows) > limit {
			rows = rows[:limit]
		}
		for i := range rows {
			rows[i].ID = DocIDFromURL(rows[i].URL)
		}
		return &schemas.ListResult{Documents: rows, Count: len(rows), Query: args.Query}, nil
	})
}

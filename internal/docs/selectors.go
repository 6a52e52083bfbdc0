// internal/docs/selectors.go
//
// The remote UI contract: URLs, element locators and keyboard shortcuts of the
// Google Docs web editor. Everything in this file is drift-prone by nature —
// Docs ships UI changes without notice — so it is kept in one place and out of
// the pipeline logic.
package docs

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/docpilot/docpilot/api/schemas"
)

// -- URLs --

// DocURL is the edit view of a document.
func DocURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/document/d/" + id + "/edit"
}

// CreateURL opens a fresh untitled document.
func CreateURL(base string) string {
	return strings.TrimRight(base, "/") + "/document/create"
}

// ListURL is the documents home screen, optionally filtered by a search query.
func ListURL(base, query string) string {
	u := strings.TrimRight(base, "/") + "/document/u/0/"
	if query != "" {
		u += "?q=" + url.QueryEscape(query)
	}
	return u
}

var docIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// DocIDFromURL extracts the document identifier from an editor URL, or ""
// when the URL does not address a document.
func DocIDFromURL(u string) string {
	m := docIDPattern.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return m[1]
}

// -- Locators --

const listingRowSelector = ".docs-homescreen-list-item"

var (
	titleInput  = schemas.Css(".docs-title-input")
	fileMenu    = schemas.Css("#docs-file-menu")
	shareButton = schemas.Css(".docs-titlebar-share-client-button")

	// editorContent is the mounted kix canvas; its textContent is the closest
	// thing to a document body the DOM exposes.
	editorContent = schemas.Css(".kix-appview-editor")

	fontFamilyControl = schemas.Css("#docs-font-family")
	fontSizeControl   = schemas.Css("#fontSizeSelect")
)

// menuItem locates a labeled menu entry by caption. Captions are the only
// stable handle Docs menus expose.
func menuItem(label string) schemas.Locator {
	return schemas.Search(fmt.Sprintf(`//div[@role="menuitem"][contains(., %q)]`, label))
}

// trashMenuItem matches both caption variants Docs ships depending on locale
// revision ("Move to bin" vs "Move to trash").
var trashMenuItem = schemas.Search(
	`//div[@role="menuitem"][contains(., "Move to bin") or contains(., "Move to trash")]`)

// dialogButton locates a labeled button inside a modal dialog.
func dialogButton(label string) schemas.Locator {
	return schemas.Search(fmt.Sprintf(`//div[@role="button"][contains(., %q)]`, label))
}

// shareRoleControl is the role combobox of the invite dialog; new recipients
// default to Viewer, which is the caption it is found by.
var shareRoleControl = schemas.Search(`//div[@role="combobox"][contains(., "Viewer")]`)

func shareRoleOption(role string) schemas.Locator {
	return schemas.Search(fmt.Sprintf(`//div[@role="option"][contains(., %q)]`, roleCaption(role)))
}

func roleCaption(role string) string {
	switch role {
	case "commenter":
		return "Commenter"
	case "editor":
		return "Editor"
	default:
		return "Viewer"
	}
}

// downloadFormatLabels maps export formats to their File → Download captions.
var downloadFormatLabels = map[string]string{
	"pdf":  "PDF Document (.pdf)",
	"docx": "Microsoft Word (.docx)",
	"txt":  "Plain Text (.txt)",
	"odt":  "OpenDocument Format (.odt)",
	"rtf":  "Rich Text Format (.rtf)",
	"html": "Web Page (.html, zipped)",
	"epub": "EPUB Publication (.epub)",
}

// -- Keyboard shortcuts --

var (
	chordSelectAll = schemas.KeyChord{Name: "select-all", Modifiers: []string{"Control"}, Key: "a"}
	chordMoveToEnd = schemas.KeyChord{Name: "move-to-end", Modifiers: []string{"Control"}, Key: "End"}
	chordEnter     = schemas.KeyChord{Name: "confirm", Key: "Enter"}
	chordTab       = schemas.KeyChord{Name: "next-field", Key: "Tab"}

	chordOpenLinkDialog = schemas.KeyChord{Name: "open-link-dialog", Modifiers: []string{"Control"}, Key: "k"}
	chordVersionHistory = schemas.KeyChord{Name: "open-version-history", Modifiers: []string{"Control", "Alt", "Shift"}, Key: "h"}
)

// formatChords and formatControls describe the text format toolbar. The
// strikethrough toggle has no stable toolbar id, so it is shortcut-only.
var formatChords = map[string]schemas.KeyChord{
	"bold":          {Name: "bold", Modifiers: []string{"Control"}, Key: "b"},
	"italic":        {Name: "italic", Modifiers: []string{"Control"}, Key: "i"},
	"underline":     {Name: "underline", Modifiers: []string{"Control"}, Key: "u"},
	"strikethrough": {Name: "strikethrough", Modifiers: []string{"Alt", "Shift"}, Key: "5"},
}

var formatControls = map[string]schemas.Locator{
	"bold":      schemas.Css("#boldButton"),
	"italic":    schemas.Css("#italicButton"),
	"underline": schemas.Css("#underlineButton"),
}

// listStyleChords apply list formatting to the current selection. The list
// toolbar controls hide behind an overflow menu at common viewport widths, so
// these are shortcut-only as well.
var listStyleChords = map[string]schemas.KeyChord{
	"bulleted": {Name: "bulleted-list", Modifiers: []string{"Control", "Shift"}, Key: "8"},
	"numbered": {Name: "numbered-list", Modifiers: []string{"Control", "Shift"}, Key: "7"},
}

var alignmentControls = map[string]schemas.Locator{
	"left":    schemas.Css("#alignLeftButton"),
	"center":  schemas.Css("#alignCenterButton"),
	"right":   schemas.Css("#alignRightButton"),
	"justify": schemas.Css("#alignJustifyButton"),
}

var alignmentChords = map[string]schemas.KeyChord{
	"left":    {Name: "align-left", Modifiers: []string{"Control", "Shift"}, Key: "l"},
	"center":  {Name: "align-center", Modifiers: []string{"Control", "Shift"}, Key: "e"},
	"right":   {Name: "align-right", Modifiers: []string{"Control", "Shift"}, Key: "r"},
	"justify": {Name: "align-justify", Modifiers: []string{"Control", "Shift"}, Key: "j"},
}

// docsTitleSuffix is what the page title appends after the document name.
const docsTitleSuffix = " - Google Docs"

// documentTitleFromPage strips the product suffix off a page title.
func documentTitleFromPage(pageTitle string) string {
	return strings.TrimSuffix(pageTitle, docsTitleSuffix)
}

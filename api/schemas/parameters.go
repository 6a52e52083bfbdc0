// api/schemas/parameters.go
//
// Typed tool arguments. The tool dispatcher coerces raw MCP arguments into
// these structs and validates them before anything reaches a pipeline, so the
// orchestrator never sees untyped input.
package schemas

import (
	"fmt"
	"strings"
)

// Enumerations shared between the tool catalog and argument validation.
var (
	TextFormats     = []string{"bold", "italic", "underline", "strikethrough"}
	ListStyles      = []string{"bulleted", "numbered"}
	Alignments      = []string{"left", "center", "right", "justify"}
	DownloadFormats = []string{"pdf", "docx", "txt", "odt", "rtf", "html", "epub"}
	ShareRoles      = []string{"viewer", "commenter", "editor"}
	EditModes       = []string{"append", "replace"}
)

// DefaultDownloadFormat is applied when the download tool omits its format.
const DefaultDownloadFormat = "pdf"

// DefaultShareRole is applied when the share tool omits its role.
const DefaultShareRole = "viewer"

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

type CreateArgs struct {
	Title   string
	Content string
}

func (a CreateArgs) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	return nil
}

type ReadArgs struct {
	DocumentID string
}

func (a ReadArgs) Validate() error { return requireDocID(a.DocumentID) }

type EditArgs struct {
	DocumentID string
	Text       string
	Mode       string
}

func (a EditArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if a.Text == "" {
		return fmt.Errorf("text must not be empty")
	}
	if !oneOf(a.Mode, EditModes) {
		return fmt.Errorf("mode must be one of %v", EditModes)
	}
	return nil
}

type DeleteArgs struct {
	DocumentID string
	Permanent  bool
}

func (a DeleteArgs) Validate() error { return requireDocID(a.DocumentID) }

type ShareArgs struct {
	DocumentID string
	Email      string
	Role       string
}

func (a ShareArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("email %q is not a valid address", a.Email)
	}
	if !oneOf(a.Role, ShareRoles) {
		return fmt.Errorf("role must be one of %v", ShareRoles)
	}
	return nil
}

type FormatArgs struct {
	DocumentID string
	Format     string
}

func (a FormatArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if !oneOf(a.Format, TextFormats) {
		return fmt.Errorf("format must be one of %v", TextFormats)
	}
	return nil
}

type ListStyleArgs struct {
	DocumentID string
	Style      string
}

func (a ListStyleArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if !oneOf(a.Style, ListStyles) {
		return fmt.Errorf("style must be one of %v", ListStyles)
	}
	return nil
}

type LinkArgs struct {
	DocumentID string
	URL        string
	Text       string
}

func (a LinkArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if !strings.HasPrefix(a.URL, "http://") && !strings.HasPrefix(a.URL, "https://") {
		return fmt.Errorf("url must be absolute (http/https)")
	}
	return nil
}

type FontArgs struct {
	DocumentID string
	Family     string
	Size       string
}

func (a FontArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if a.Family == "" && a.Size == "" {
		return fmt.Errorf("at least one of family or size is required")
	}
	return nil
}

type AlignArgs struct {
	DocumentID string
	Alignment  string
}

func (a AlignArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if !oneOf(a.Alignment, Alignments) {
		return fmt.Errorf("alignment must be one of %v", Alignments)
	}
	return nil
}

type DownloadArgs struct {
	DocumentID string
	Format     string
}

func (a DownloadArgs) Validate() error {
	if err := requireDocID(a.DocumentID); err != nil {
		return err
	}
	if !oneOf(a.Format, DownloadFormats) {
		return fmt.Errorf("format must be one of %v", DownloadFormats)
	}
	return nil
}

type CopyArgs struct {
	DocumentID string
	Title      string
}

func (a CopyArgs) Validate() error { return requireDocID(a.DocumentID) }

type VersionHistoryArgs struct {
	DocumentID string
}

func (a VersionHistoryArgs) Validate() error { return requireDocID(a.DocumentID) }

type ListArgs struct {
	Query string
	Limit int
}

func (a ListArgs) Validate() error {
	if a.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	return nil
}

func requireDocID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document_id is required")
	}
	return nil
}

// api/schemas/results.go
package schemas

import "time"

// DocumentRow is one entry of the document listing view.
type DocumentRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Modified string `json:"modified,omitempty"`
}

// OperationResult is the terminal outcome of a pipeline run: a success payload
// or a taxonomy failure, never both, exactly one per run.
type OperationResult struct {
	Op       string        `json:"op"`
	RunID    string        `json:"run_id"`
	Payload  any           `json:"payload,omitempty"`
	Err      *OpError      `json:"-"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether the run succeeded.
func (r OperationResult) OK() bool { return r.Err == nil }

// -- Operation payloads --

type CreateResult struct {
	DocumentID string `json:"document_id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
}

type ReadResult struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type EditResult struct {
	DocumentID string `json:"document_id"`
	Mode       string `json:"mode"`
	Applied    bool   `json:"applied"`
}

type FormatResult struct {
	DocumentID string `json:"document_id"`
	Format     string `json:"format"`
	Applied    bool   `json:"applied"`
	// Via records whether the toolbar control or the fallback shortcut was used.
	Via StepPath `json:"via"`
}

type ListStyleResult struct {
	DocumentID string   `json:"document_id"`
	Style      string   `json:"style"`
	Applied    bool     `json:"applied"`
	Via        StepPath `json:"via"`
}

type LinkResult struct {
	DocumentID string `json:"document_id"`
	URL        string `json:"url"`
	Text       string `json:"text,omitempty"`
	Inserted   bool   `json:"inserted"`
}

type FontResult struct {
	DocumentID string `json:"document_id"`
	Family     string `json:"family,omitempty"`
	Size       string `json:"size,omitempty"`
	Applied    bool   `json:"applied"`
}

type AlignResult struct {
	DocumentID string   `json:"document_id"`
	Alignment  string   `json:"alignment"`
	Applied    bool     `json:"applied"`
	Via        StepPath `json:"via"`
}

type ShareResult struct {
	DocumentID string `json:"document_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Shared     bool   `json:"shared"`
}

type CopyResult struct {
	SourceID string `json:"source_id"`
	CopyID   string `json:"copy_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Copied   bool   `json:"copied"`
}

type DeleteResult struct {
	DocumentID string `json:"document_id"`
	Trashed    bool   `json:"trashed"`
}

type DownloadResult struct {
	DocumentID string `json:"document_id"`
	Format     string `json:"format"`
	Dispatched bool   `json:"dispatched"`
	// Note documents the fidelity limit: only dispatch is observable, not
	// file-system completion.
	Note string `json:"note"`
}

type VersionHistoryResult struct {
	DocumentID string   `json:"document_id"`
	Opened     bool     `json:"opened"`
	Via        StepPath `json:"via"`
}

type ListResult struct {
	Documents []DocumentRow `json:"documents"`
	Count     int           `json:"count"`
	Query     string        `json:"query,omitempty"`
}

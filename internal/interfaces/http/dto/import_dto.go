package dto

import (
	importapp "github.com/becreativeqatar/bceportal/internal/application/import"
	csvimport "github.com/becreativeqatar/bceportal/internal/infrastructure/import"
)

// AccreditationImportCommitRequest represents the request to commit a bulk import
// @Description Request body for committing validated accreditation rows
type AccreditationImportCommitRequest struct {
	Rows           []importapp.AccreditationImportRow `json:"rows" binding:"required,min=1,dive"`
	SkipDuplicates bool                               `json:"skip_duplicates"`
}

// AccreditationImportValidateResponse represents the response from CSV validation
// @Description Response from accreditation CSV validation
type AccreditationImportValidateResponse struct {
	SessionID   string               `json:"session_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	State       string               `json:"state" example:"validated"`
	TotalRows   int                  `json:"total_rows" example:"100"`
	ValidRows   int                  `json:"valid_rows" example:"98"`
	ErrorRows   int                  `json:"error_rows" example:"2"`
	Errors      []csvimport.RowError `json:"errors,omitempty"`
	Preview     []map[string]any     `json:"preview,omitempty"`
	IsTruncated bool                 `json:"is_truncated,omitempty"`
	TotalErrors int                  `json:"total_errors,omitempty"`
}

// AccreditationImportCommitResponse represents the response from a bulk import commit
// @Description Response from accreditation bulk import
type AccreditationImportCommitResponse struct {
	TotalRows    int                  `json:"total_rows" example:"100"`
	ImportedRows int                  `json:"imported_rows" example:"95"`
	SkippedRows  int                  `json:"skipped_rows" example:"3"`
	FailedRows   int                  `json:"failed_rows" example:"2"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// ImportSessionResponse represents an import session in API responses
// @Description Import session details
type ImportSessionResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ProjectID string `json:"project_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	FileName  string `json:"file_name" example:"crew.csv"`
	FileSize  int64  `json:"file_size" example:"20480"`
	State     string `json:"state" example:"validated"`
	TotalRows int    `json:"total_rows" example:"100"`
	ValidRows int    `json:"valid_rows" example:"98"`
	ErrorRows int    `json:"error_rows" example:"2"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

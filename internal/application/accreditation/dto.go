package accreditation

import (
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/google/uuid"
)

// WindowInput represents a phase window in requests
type WindowInput struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name         string      `json:"name" binding:"required,min=1,max=200"`
	Code         string      `json:"code" binding:"required,min=1,max=50"`
	Description  string      `json:"description"`
	AccessGroups []string    `json:"access_groups" binding:"required,min=1"`
	BumpIn       WindowInput `json:"bump_in" binding:"required"`
	Live         WindowInput `json:"live" binding:"required"`
	BumpOut      WindowInput `json:"bump_out" binding:"required"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name         string      `json:"name" binding:"required,min=1,max=200"`
	Description  string      `json:"description"`
	AccessGroups []string    `json:"access_groups" binding:"required,min=1"`
	BumpIn       WindowInput `json:"bump_in" binding:"required"`
	Live         WindowInput `json:"live" binding:"required"`
	BumpOut      WindowInput `json:"bump_out" binding:"required"`
}

// ProjectListFilter represents filter options for listing projects
type ProjectListFilter struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir"`
	Search      string `form:"search"`
	Active      *bool  `form:"active"`
	AccessGroup string `form:"access_group"`
}

// WindowResponse represents a phase window in API responses
type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Code         string         `json:"code"`
	Description  string         `json:"description,omitempty"`
	AccessGroups []string       `json:"access_groups"`
	BumpIn       WindowResponse `json:"bump_in"`
	Live         WindowResponse `json:"live"`
	BumpOut      WindowResponse `json:"bump_out"`
	Active       bool           `json:"active"`
	CreatedBy    *uuid.UUID     `json:"created_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Version      int            `json:"version"`
}

// ToProjectResponse converts a domain Project to a ProjectResponse
func ToProjectResponse(p *accreditation.Project) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Code:         p.Code,
		Description:  p.Description,
		AccessGroups: p.AccessGroups,
		BumpIn:       WindowResponse{Start: p.BumpIn.Start, End: p.BumpIn.End},
		Live:         WindowResponse{Start: p.Live.Start, End: p.Live.End},
		BumpOut:      WindowResponse{Start: p.BumpOut.Start, End: p.BumpOut.End},
		Active:       p.Active,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProjectResponses converts a slice of domain Projects to responses
func ToProjectResponses(projects []accreditation.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}

// IdentificationInput represents identification details in requests.
// Exactly one of the QID or passport field groups must be populated.
type IdentificationInput struct {
	Type            string     `json:"type" binding:"required"`
	QIDNumber       string     `json:"qid_number,omitempty"`
	QIDExpiry       *time.Time `json:"qid_expiry,omitempty"`
	PassportNumber  string     `json:"passport_number,omitempty"`
	PassportCountry string     `json:"passport_country,omitempty"`
	PassportExpiry  *time.Time `json:"passport_expiry,omitempty"`
	HayyaVisaNumber string     `json:"hayya_visa_number,omitempty"`
	HayyaVisaExpiry *time.Time `json:"hayya_visa_expiry,omitempty"`
}

// PersonInput represents person details in requests
type PersonInput struct {
	FirstName    string `json:"first_name" binding:"required,min=1,max=100"`
	LastName     string `json:"last_name" binding:"required,min=1,max=100"`
	Organization string `json:"organization" binding:"max=200"`
	JobTitle     string `json:"job_title" binding:"max=200"`
	AccessGroup  string `json:"access_group" binding:"required,min=1,max=100"`
}

// CreateRecordRequest represents a request to create an accreditation record
type CreateRecordRequest struct {
	ProjectID      uuid.UUID           `json:"project_id" binding:"required"`
	Person         PersonInput         `json:"person" binding:"required"`
	Identification IdentificationInput `json:"identification" binding:"required"`
	PhotoURL       string              `json:"photo_url"`
}

// UpdateRecordRequest represents a request to update a record
type UpdateRecordRequest struct {
	Person         *PersonInput         `json:"person"`
	Identification *IdentificationInput `json:"identification"`
	PhotoURL       *string              `json:"photo_url"`
}

// GrantInput represents a per-phase access grant in requests
type GrantInput struct {
	Phase         string     `json:"phase" binding:"required"`
	Enabled       bool       `json:"enabled"`
	OverrideStart *time.Time `json:"override_start"`
	OverrideEnd   *time.Time `json:"override_end"`
}

// RejectRecordRequest represents a request to reject a record
type RejectRecordRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RevokeRecordRequest represents a request to revoke a record
type RevokeRecordRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RecordListFilter represents filter options for listing records
type RecordListFilter struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir"`
	Search      string     `form:"search"`
	ProjectID   *uuid.UUID `form:"project_id"`
	Status      *string    `form:"status"`
	AccessGroup string     `form:"access_group"`
	Revoked     *bool      `form:"revoked"`
}

// IdentificationResponse represents identification details in API responses
type IdentificationResponse struct {
	Type            string     `json:"type"`
	QIDNumber       string     `json:"qid_number,omitempty"`
	QIDExpiry       *time.Time `json:"qid_expiry,omitempty"`
	PassportNumber  string     `json:"passport_number,omitempty"`
	PassportCountry string     `json:"passport_country,omitempty"`
	PassportExpiry  *time.Time `json:"passport_expiry,omitempty"`
	HayyaVisaNumber string     `json:"hayya_visa_number,omitempty"`
	HayyaVisaExpiry *time.Time `json:"hayya_visa_expiry,omitempty"`
}

// GrantResponse represents a per-phase access grant in API responses
type GrantResponse struct {
	Enabled       bool       `json:"enabled"`
	OverrideStart *time.Time `json:"override_start,omitempty"`
	OverrideEnd   *time.Time `json:"override_end,omitempty"`
}

// RecordResponse represents an accreditation record in API responses
type RecordResponse struct {
	ID                  uuid.UUID              `json:"id"`
	AccreditationNumber string                 `json:"accreditation_number"`
	ProjectID           uuid.UUID              `json:"project_id"`
	FirstName           string                 `json:"first_name"`
	LastName            string                 `json:"last_name"`
	Organization        string                 `json:"organization,omitempty"`
	JobTitle            string                 `json:"job_title,omitempty"`
	AccessGroup         string                 `json:"access_group"`
	Identification      IdentificationResponse `json:"identification"`
	Status              string                 `json:"status"`
	PhotoURL            string                 `json:"photo_url,omitempty"`
	BumpInGrant         GrantResponse          `json:"bump_in_grant"`
	LiveGrant           GrantResponse          `json:"live_grant"`
	BumpOutGrant        GrantResponse          `json:"bump_out_grant"`
	QRToken             *string                `json:"qr_token,omitempty"`
	Revoked             bool                   `json:"revoked"`
	SubmittedAt         *time.Time             `json:"submitted_at,omitempty"`
	ApprovedAt          *time.Time             `json:"approved_at,omitempty"`
	ApprovedBy          *uuid.UUID             `json:"approved_by,omitempty"`
	RejectedAt          *time.Time             `json:"rejected_at,omitempty"`
	RejectedBy          *uuid.UUID             `json:"rejected_by,omitempty"`
	RejectionReason     string                 `json:"rejection_reason,omitempty"`
	RevokedAt           *time.Time             `json:"revoked_at,omitempty"`
	RevokedBy           *uuid.UUID             `json:"revoked_by,omitempty"`
	RevocationReason    string                 `json:"revocation_reason,omitempty"`
	CreatedBy           *uuid.UUID             `json:"created_by,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	Version             int                    `json:"version"`
}

// RecordListItemResponse represents a record in list responses (less detail)
type RecordListItemResponse struct {
	ID                  uuid.UUID  `json:"id"`
	AccreditationNumber string     `json:"accreditation_number"`
	ProjectID           uuid.UUID  `json:"project_id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Organization        string     `json:"organization,omitempty"`
	AccessGroup         string     `json:"access_group"`
	IdentificationType  string     `json:"identification_type"`
	Status              string     `json:"status"`
	Revoked             bool       `json:"revoked"`
	SubmittedAt         *time.Time `json:"submitted_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ToRecordResponse converts a domain AccreditationRecord to a RecordResponse
func ToRecordResponse(r *accreditation.AccreditationRecord) RecordResponse {
	return RecordResponse{
		ID:                  r.ID,
		AccreditationNumber: r.AccreditationNumber,
		ProjectID:           r.ProjectID,
		FirstName:           r.Person.FirstName,
		LastName:            r.Person.LastName,
		Organization:        r.Person.Organization,
		JobTitle:            r.Person.JobTitle,
		AccessGroup:         r.Person.AccessGroup,
		Identification: IdentificationResponse{
			Type:            string(r.Identification.Type),
			QIDNumber:       r.Identification.QIDNumber,
			QIDExpiry:       r.Identification.QIDExpiry,
			PassportNumber:  r.Identification.PassportNumber,
			PassportCountry: r.Identification.PassportCountry,
			PassportExpiry:  r.Identification.PassportExpiry,
			HayyaVisaNumber: r.Identification.HayyaVisaNumber,
			HayyaVisaExpiry: r.Identification.HayyaVisaExpiry,
		},
		Status:           string(r.Status),
		PhotoURL:         r.PhotoURL,
		BumpInGrant:      toGrantResponse(r.BumpInGrant),
		LiveGrant:        toGrantResponse(r.LiveGrant),
		BumpOutGrant:     toGrantResponse(r.BumpOutGrant),
		QRToken:          r.QRToken,
		Revoked:          r.IsRevoked(),
		SubmittedAt:      r.SubmittedAt,
		ApprovedAt:       r.ApprovedAt,
		ApprovedBy:       r.ApprovedBy,
		RejectedAt:       r.RejectedAt,
		RejectedBy:       r.RejectedBy,
		RejectionReason:  r.RejectionReason,
		RevokedAt:        r.RevokedAt,
		RevokedBy:        r.RevokedBy,
		RevocationReason: r.RevocationReason,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Version:          r.Version,
	}
}

func toGrantResponse(g accreditation.PhaseGrant) GrantResponse {
	return GrantResponse{
		Enabled:       g.Enabled,
		OverrideStart: g.OverrideStart,
		OverrideEnd:   g.OverrideEnd,
	}
}

// ToRecordListItemResponse converts a domain record to a list item response
func ToRecordListItemResponse(r *accreditation.AccreditationRecord) RecordListItemResponse {
	return RecordListItemResponse{
		ID:                  r.ID,
		AccreditationNumber: r.AccreditationNumber,
		ProjectID:           r.ProjectID,
		FirstName:           r.Person.FirstName,
		LastName:            r.Person.LastName,
		Organization:        r.Person.Organization,
		AccessGroup:         r.Person.AccessGroup,
		IdentificationType:  string(r.Identification.Type),
		Status:              string(r.Status),
		Revoked:             r.IsRevoked(),
		SubmittedAt:         r.SubmittedAt,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// ToRecordListItemResponses converts a slice of domain records to list responses
func ToRecordListItemResponses(records []accreditation.AccreditationRecord) []RecordListItemResponse {
	responses := make([]RecordListItemResponse, len(records))
	for i := range records {
		responses[i] = ToRecordListItemResponse(&records[i])
	}
	return responses
}

// ScanLogResponse represents a scan log entry in API responses
type ScanLogResponse struct {
	ID          uuid.UUID  `json:"id"`
	RecordID    uuid.UUID  `json:"record_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	ScannedAt   time.Time  `json:"scanned_at"`
	Result      string     `json:"result"`
	ValidPhases []string   `json:"valid_phases"`
	ScannedBy   *uuid.UUID `json:"scanned_by,omitempty"`
	DeviceInfo  string     `json:"device_info,omitempty"`
	Location    string     `json:"location,omitempty"`
}

// ToScanLogResponse converts a domain ScanLog to a ScanLogResponse
func ToScanLogResponse(l *accreditation.ScanLog) ScanLogResponse {
	phases := make([]string, len(l.ValidPhases))
	for i, p := range l.ValidPhases {
		phases[i] = string(p)
	}
	return ScanLogResponse{
		ID:          l.ID,
		RecordID:    l.RecordID,
		ProjectID:   l.ProjectID,
		ScannedAt:   l.ScannedAt,
		Result:      string(l.Result),
		ValidPhases: phases,
		ScannedBy:   l.ScannedBy,
		DeviceInfo:  l.DeviceInfo,
		Location:    l.Location,
	}
}

// ToScanLogResponses converts a slice of domain scan logs to responses
func ToScanLogResponses(logs []accreditation.ScanLog) []ScanLogResponse {
	responses := make([]ScanLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToScanLogResponse(&logs[i])
	}
	return responses
}

// VerifyScanRequest represents a manual scan verification request
type VerifyScanRequest struct {
	Input      string     `json:"input" binding:"required"`
	ScannedBy  *uuid.UUID `json:"scanned_by"`
	DeviceInfo string     `json:"device_info" binding:"max=200"`
	Location   string     `json:"location" binding:"max=200"`
}

// ScanVerificationResponse represents the outcome of a scan verification
type ScanVerificationResponse struct {
	Valid               bool       `json:"valid"`
	Result              string     `json:"result"`
	ValidPhases         []string   `json:"valid_phases"`
	AccreditationNumber string     `json:"accreditation_number,omitempty"`
	FirstName           string     `json:"first_name,omitempty"`
	LastName            string     `json:"last_name,omitempty"`
	Organization        string     `json:"organization,omitempty"`
	AccessGroup         string     `json:"access_group,omitempty"`
	PhotoURL            string     `json:"photo_url,omitempty"`
	ProjectID           *uuid.UUID `json:"project_id,omitempty"`
	ScannedAt           time.Time  `json:"scanned_at"`
}

package accreditation

import (
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeProject = "Project"
	AggregateTypeRecord  = "AccreditationRecord"
)

// Event type constants
const (
	EventTypeProjectCreated  = "ProjectCreated"
	EventTypeRecordCreated   = "AccreditationRecordCreated"
	EventTypeRecordSubmitted = "AccreditationRecordSubmitted"
	EventTypeRecordApproved  = "AccreditationRecordApproved"
	EventTypeRecordRejected  = "AccreditationRecordRejected"
	EventTypeRecordRevoked   = "AccreditationRecordRevoked"
	EventTypeScanRecorded    = "ScanRecorded"
)

// ProjectCreatedEvent is raised when a new project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(project *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, AggregateTypeProject, project.ID),
		ProjectID:       project.ID,
		Name:            project.Name,
		Code:            project.Code,
	}
}

// EventType returns the event type name
func (e *ProjectCreatedEvent) EventType() string {
	return EventTypeProjectCreated
}

// RecordCreatedEvent is raised when a new accreditation record is created
type RecordCreatedEvent struct {
	shared.BaseDomainEvent
	RecordID            uuid.UUID `json:"record_id"`
	ProjectID           uuid.UUID `json:"project_id"`
	AccreditationNumber string    `json:"accreditation_number"`
	AccessGroup         string    `json:"access_group"`
}

// NewRecordCreatedEvent creates a new RecordCreatedEvent
func NewRecordCreatedEvent(record *AccreditationRecord) *RecordCreatedEvent {
	return &RecordCreatedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeRecordCreated, AggregateTypeRecord, record.ID),
		RecordID:            record.ID,
		ProjectID:           record.ProjectID,
		AccreditationNumber: record.AccreditationNumber,
		AccessGroup:         record.Person.AccessGroup,
	}
}

// EventType returns the event type name
func (e *RecordCreatedEvent) EventType() string {
	return EventTypeRecordCreated
}

// RecordSubmittedEvent is raised when a record is submitted for review
type RecordSubmittedEvent struct {
	shared.BaseDomainEvent
	RecordID            uuid.UUID `json:"record_id"`
	ProjectID           uuid.UUID `json:"project_id"`
	AccreditationNumber string    `json:"accreditation_number"`
	SubmittedBy         uuid.UUID `json:"submitted_by"`
}

// NewRecordSubmittedEvent creates a new RecordSubmittedEvent
func NewRecordSubmittedEvent(record *AccreditationRecord, by uuid.UUID) *RecordSubmittedEvent {
	return &RecordSubmittedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeRecordSubmitted, AggregateTypeRecord, record.ID),
		RecordID:            record.ID,
		ProjectID:           record.ProjectID,
		AccreditationNumber: record.AccreditationNumber,
		SubmittedBy:         by,
	}
}

// EventType returns the event type name
func (e *RecordSubmittedEvent) EventType() string {
	return EventTypeRecordSubmitted
}

// RecordApprovedEvent is raised when a record is approved and a QR token issued
type RecordApprovedEvent struct {
	shared.BaseDomainEvent
	RecordID            uuid.UUID `json:"record_id"`
	ProjectID           uuid.UUID `json:"project_id"`
	AccreditationNumber string    `json:"accreditation_number"`
	ApprovedBy          uuid.UUID `json:"approved_by"`
}

// NewRecordApprovedEvent creates a new RecordApprovedEvent
func NewRecordApprovedEvent(record *AccreditationRecord, by uuid.UUID) *RecordApprovedEvent {
	return &RecordApprovedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeRecordApproved, AggregateTypeRecord, record.ID),
		RecordID:            record.ID,
		ProjectID:           record.ProjectID,
		AccreditationNumber: record.AccreditationNumber,
		ApprovedBy:          by,
	}
}

// EventType returns the event type name
func (e *RecordApprovedEvent) EventType() string {
	return EventTypeRecordApproved
}

// RecordRejectedEvent is raised when a record is rejected
type RecordRejectedEvent struct {
	shared.BaseDomainEvent
	RecordID            uuid.UUID `json:"record_id"`
	ProjectID           uuid.UUID `json:"project_id"`
	AccreditationNumber string    `json:"accreditation_number"`
	RejectedBy          uuid.UUID `json:"rejected_by"`
	Reason              string    `json:"reason,omitempty"`
}

// NewRecordRejectedEvent creates a new RecordRejectedEvent
func NewRecordRejectedEvent(record *AccreditationRecord, by uuid.UUID, reason string) *RecordRejectedEvent {
	return &RecordRejectedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeRecordRejected, AggregateTypeRecord, record.ID),
		RecordID:            record.ID,
		ProjectID:           record.ProjectID,
		AccreditationNumber: record.AccreditationNumber,
		RejectedBy:          by,
		Reason:              reason,
	}
}

// EventType returns the event type name
func (e *RecordRejectedEvent) EventType() string {
	return EventTypeRecordRejected
}

// RecordRevokedEvent is raised when an approved record is revoked
type RecordRevokedEvent struct {
	shared.BaseDomainEvent
	RecordID            uuid.UUID `json:"record_id"`
	ProjectID           uuid.UUID `json:"project_id"`
	AccreditationNumber string    `json:"accreditation_number"`
	RevokedBy           uuid.UUID `json:"revoked_by"`
	Reason              string    `json:"reason"`
}

// NewRecordRevokedEvent creates a new RecordRevokedEvent
func NewRecordRevokedEvent(record *AccreditationRecord, by uuid.UUID, reason string) *RecordRevokedEvent {
	return &RecordRevokedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeRecordRevoked, AggregateTypeRecord, record.ID),
		RecordID:            record.ID,
		ProjectID:           record.ProjectID,
		AccreditationNumber: record.AccreditationNumber,
		RevokedBy:           by,
		Reason:              reason,
	}
}

// EventType returns the event type name
func (e *RecordRevokedEvent) EventType() string {
	return EventTypeRecordRevoked
}

// ScanRecordedEvent is raised after a verification attempt against a known record
type ScanRecordedEvent struct {
	shared.BaseDomainEvent
	ScanLogID uuid.UUID  `json:"scan_log_id"`
	RecordID  uuid.UUID  `json:"record_id"`
	ProjectID uuid.UUID  `json:"project_id"`
	Result    ScanResult `json:"result"`
	ScannedAt time.Time  `json:"scanned_at"`
}

// NewScanRecordedEvent creates a new ScanRecordedEvent
func NewScanRecordedEvent(log *ScanLog) *ScanRecordedEvent {
	return &ScanRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeScanRecorded, AggregateTypeRecord, log.RecordID),
		ScanLogID:       log.ID,
		RecordID:        log.RecordID,
		ProjectID:       log.ProjectID,
		Result:          log.Result,
		ScannedAt:       log.ScannedAt,
	}
}

// EventType returns the event type name
func (e *ScanRecordedEvent) EventType() string {
	return EventTypeScanRecorded
}

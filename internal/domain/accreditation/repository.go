package accreditation

import (
	"context"

	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordFilter narrows record listings beyond the generic pagination filter
type RecordFilter struct {
	shared.Filter
	ProjectID   *uuid.UUID
	Status      *RecordStatus
	AccessGroup string
	Revoked     *bool
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindByCode finds a project by its unique code
	FindByCode(ctx context.Context, code string) (*Project, error)

	// FindAll finds all projects with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)

	// Save creates or updates a project
	Save(ctx context.Context, project *Project) error

	// Count counts projects matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AccreditationRecordRepository defines the interface for record persistence
type AccreditationRecordRepository interface {
	// FindByID finds a record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AccreditationRecord, error)

	// FindByNumber finds a record by its accreditation number
	FindByNumber(ctx context.Context, number string) (*AccreditationRecord, error)

	// FindByQRToken finds a record by its QR token
	FindByQRToken(ctx context.Context, token string) (*AccreditationRecord, error)

	// FindByIdentification finds records in a project carrying the given
	// document number, used for duplicate detection on import
	FindByIdentification(ctx context.Context, projectID uuid.UUID, documentNumber string) ([]AccreditationRecord, error)

	// FindAll finds records with filtering
	FindAll(ctx context.Context, filter RecordFilter) ([]AccreditationRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *AccreditationRecord) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, record *AccreditationRecord) error

	// Delete removes a DRAFT record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts records matching the filter
	Count(ctx context.Context, filter RecordFilter) (int64, error)

	// CountByStatus counts records in a project by status
	CountByStatus(ctx context.Context, projectID uuid.UUID, status RecordStatus) (int64, error)

	// GenerateNumber generates a unique accreditation number
	GenerateNumber(ctx context.Context) (string, error)
}

// ScanLogRepository defines the interface for scan log persistence.
// Scan logs are append-only; there is no update or delete.
type ScanLogRepository interface {
	// Save appends a scan log entry
	Save(ctx context.Context, log *ScanLog) error

	// FindByRecord lists scan logs for one record, newest first
	FindByRecord(ctx context.Context, recordID uuid.UUID, filter shared.Filter) ([]ScanLog, error)

	// FindByProject lists scan logs for one project, newest first
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]ScanLog, error)

	// CountByRecord counts scan logs for one record
	CountByRecord(ctx context.Context, recordID uuid.UUID) (int64, error)
}

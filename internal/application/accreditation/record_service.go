package accreditation

import (
	"context"
	"strings"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordService handles accreditation record business operations
type RecordService struct {
	recordRepo     accreditation.AccreditationRecordRepository
	projectRepo    accreditation.ProjectRepository
	eventPublisher shared.EventPublisher
}

// NewRecordService creates a new RecordService
func NewRecordService(
	recordRepo accreditation.AccreditationRecordRepository,
	projectRepo accreditation.ProjectRepository,
) *RecordService {
	return &RecordService{
		recordRepo:  recordRepo,
		projectRepo: projectRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RecordService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new accreditation record in DRAFT status
func (s *RecordService) Create(ctx context.Context, userID uuid.UUID, req CreateRecordRequest) (*RecordResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	ident, err := buildIdentification(req.Identification)
	if err != nil {
		return nil, err
	}

	number, err := s.recordRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	record, err := accreditation.NewAccreditationRecord(
		project,
		number,
		accreditation.PersonInfo{
			FirstName:    req.Person.FirstName,
			LastName:     req.Person.LastName,
			Organization: req.Person.Organization,
			JobTitle:     req.Person.JobTitle,
			AccessGroup:  req.Person.AccessGroup,
		},
		ident,
		userID,
	)
	if err != nil {
		return nil, err
	}

	if req.PhotoURL != "" {
		record.SetPhotoURL(req.PhotoURL)
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)

	response := ToRecordResponse(record)
	return &response, nil
}

// Update updates a record's person, identification, or photo
func (s *RecordService) Update(ctx context.Context, recordID uuid.UUID, req UpdateRecordRequest) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, record.ProjectID)
	if err != nil {
		return nil, err
	}

	if req.Person != nil {
		person := accreditation.PersonInfo{
			FirstName:    req.Person.FirstName,
			LastName:     req.Person.LastName,
			Organization: req.Person.Organization,
			JobTitle:     req.Person.JobTitle,
			AccessGroup:  req.Person.AccessGroup,
		}
		if err := record.UpdatePerson(project, person); err != nil {
			return nil, err
		}
	}

	if req.Identification != nil {
		ident, err := buildIdentification(*req.Identification)
		if err != nil {
			return nil, err
		}
		if err := record.SetIdentification(ident); err != nil {
			return nil, err
		}
	}

	if req.PhotoURL != nil {
		record.SetPhotoURL(*req.PhotoURL)
	}

	if err := s.recordRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	response := ToRecordResponse(record)
	return &response, nil
}

// SetGrant sets a per-phase access grant on a record
func (s *RecordService) SetGrant(ctx context.Context, recordID uuid.UUID, req GrantInput) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, record.ProjectID)
	if err != nil {
		return nil, err
	}

	phase := accreditation.Phase(strings.ToUpper(req.Phase))
	if !phase.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "phase must be BUMP_IN, LIVE, or BUMP_OUT")
	}

	grant := accreditation.PhaseGrant{
		Enabled:       req.Enabled,
		OverrideStart: req.OverrideStart,
		OverrideEnd:   req.OverrideEnd,
	}
	if err := record.SetGrant(project, phase, grant); err != nil {
		return nil, err
	}

	if err := s.recordRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	response := ToRecordResponse(record)
	return &response, nil
}

// Submit submits a DRAFT record for review
func (s *RecordService) Submit(ctx context.Context, recordID, userID uuid.UUID) (*RecordResponse, error) {
	return s.transition(ctx, recordID, func(record *accreditation.AccreditationRecord) error {
		return record.Submit(userID)
	})
}

// Approve approves a PENDING record and assigns its QR token
func (s *RecordService) Approve(ctx context.Context, recordID, userID uuid.UUID) (*RecordResponse, error) {
	return s.transition(ctx, recordID, func(record *accreditation.AccreditationRecord) error {
		return record.Approve(userID)
	})
}

// Reject rejects a PENDING record
func (s *RecordService) Reject(ctx context.Context, recordID, userID uuid.UUID, req RejectRecordRequest) (*RecordResponse, error) {
	return s.transition(ctx, recordID, func(record *accreditation.AccreditationRecord) error {
		return record.Reject(userID, req.Reason)
	})
}

// Revoke revokes an APPROVED record. The record keeps its status and token;
// revocation is recorded as metadata and makes the record unscannable.
func (s *RecordService) Revoke(ctx context.Context, recordID, userID uuid.UUID, req RevokeRecordRequest) (*RecordResponse, error) {
	return s.transition(ctx, recordID, func(record *accreditation.AccreditationRecord) error {
		return record.Revoke(userID, req.Reason)
	})
}

func (s *RecordService) transition(ctx context.Context, recordID uuid.UUID, apply func(*accreditation.AccreditationRecord) error) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if err := apply(record); err != nil {
		return nil, err
	}

	if err := s.recordRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)

	response := ToRecordResponse(record)
	return &response, nil
}

// GetByID retrieves a record by ID
func (s *RecordService) GetByID(ctx context.Context, recordID uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// GetByNumber retrieves a record by its accreditation number
func (s *RecordService) GetByNumber(ctx context.Context, number string) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// List retrieves records with filtering and pagination
func (s *RecordService) List(ctx context.Context, filter RecordListFilter) ([]RecordListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := accreditation.RecordFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		ProjectID:   filter.ProjectID,
		AccessGroup: filter.AccessGroup,
		Revoked:     filter.Revoked,
	}
	if filter.Status != nil {
		status := accreditation.RecordStatus(strings.ToUpper(*filter.Status))
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "status must be DRAFT, PENDING, APPROVED, or REJECTED")
		}
		domainFilter.Status = &status
	}

	records, err := s.recordRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordListItemResponses(records), total, nil
}

// Delete deletes a record. Only DRAFT records may be deleted.
func (s *RecordService) Delete(ctx context.Context, recordID uuid.UUID) error {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return err
	}

	if record.Status != accreditation.RecordStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft records can be deleted")
	}

	return s.recordRepo.Delete(ctx, recordID)
}

// CountByStatus counts records in a project by status
func (s *RecordService) CountByStatus(ctx context.Context, projectID uuid.UUID, status accreditation.RecordStatus) (int64, error) {
	return s.recordRepo.CountByStatus(ctx, projectID, status)
}

func (s *RecordService) publishEvents(ctx context.Context, record *accreditation.AccreditationRecord) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range record.GetDomainEvents() {
		// Event handling is asynchronous; bus failures never fail the command path
		_ = s.eventPublisher.Publish(ctx, event)
	}
	record.ClearDomainEvents()
}

// buildIdentification converts an identification input to the domain value object
func buildIdentification(input IdentificationInput) (accreditation.Identification, error) {
	identType, err := accreditation.ParseIdentificationType(input.Type)
	if err != nil {
		return accreditation.Identification{}, err
	}

	switch identType {
	case accreditation.IdentificationQID:
		if input.QIDExpiry == nil {
			return accreditation.Identification{}, shared.NewDomainError("MISSING_FIELD", "qid_expiry is required")
		}
		return accreditation.NewQIDIdentification(input.QIDNumber, *input.QIDExpiry)
	default:
		if input.PassportExpiry == nil {
			return accreditation.Identification{}, shared.NewDomainError("MISSING_FIELD", "passport_expiry is required")
		}
		if input.HayyaVisaExpiry == nil {
			return accreditation.Identification{}, shared.NewDomainError("MISSING_FIELD", "hayya_visa_expiry is required")
		}
		return accreditation.NewPassportIdentification(
			input.PassportNumber,
			input.PassportCountry,
			*input.PassportExpiry,
			input.HayyaVisaNumber,
			*input.HayyaVisaExpiry,
		)
	}
}

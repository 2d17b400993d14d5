package accreditation

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
)

// tokenPattern matches the opaque QR token alphabet
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// accNumberPattern matches a manually entered accreditation number,
// after uppercasing
var accNumberPattern = regexp.MustCompile(`^ACC-[A-Z0-9-]+$`)

// ScanService handles QR scan verification.
// Every verification of an existing record appends a scan log entry,
// whatever the outcome; an unknown token produces no log.
type ScanService struct {
	recordRepo     accreditation.AccreditationRecordRepository
	projectRepo    accreditation.ProjectRepository
	scanLogRepo    accreditation.ScanLogRepository
	eventPublisher shared.EventPublisher
	maxTokenLength int
	nowFunc        func() time.Time
}

// ScanServiceOption is a functional option for configuring the service
type ScanServiceOption func(*ScanService)

// WithMaxTokenLength overrides the maximum accepted token length
func WithMaxTokenLength(n int) ScanServiceOption {
	return func(s *ScanService) {
		s.maxTokenLength = n
	}
}

// WithNowFunc overrides the clock, for tests
func WithNowFunc(now func() time.Time) ScanServiceOption {
	return func(s *ScanService) {
		s.nowFunc = now
	}
}

// NewScanService creates a new ScanService
func NewScanService(
	recordRepo accreditation.AccreditationRecordRepository,
	projectRepo accreditation.ProjectRepository,
	scanLogRepo accreditation.ScanLogRepository,
	opts ...ScanServiceOption,
) *ScanService {
	s := &ScanService{
		recordRepo:     recordRepo,
		projectRepo:    projectRepo,
		scanLogRepo:    scanLogRepo,
		maxTokenLength: 50,
		nowFunc:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ScanService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ExtractToken extracts the opaque token from scanner input. The input is
// either the token itself or a verify URL whose path ends in /verify/<token>.
func (s *ScanService) ExtractToken(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", shared.NewDomainError("INVALID_TOKEN", "Scan input is empty")
	}

	token := input
	if strings.Contains(input, "/") {
		u, err := url.Parse(input)
		if err != nil {
			return "", shared.NewDomainError("INVALID_TOKEN", "Scan input is not a valid verify URL")
		}
		path := strings.TrimRight(u.Path, "/")
		idx := strings.LastIndex(path, "/verify/")
		if idx < 0 {
			return "", shared.NewDomainError("INVALID_TOKEN", "Scan input is not a verify URL")
		}
		token = path[idx+len("/verify/"):]
	}

	if token == "" || len(token) > s.maxTokenLength || !tokenPattern.MatchString(token) {
		return "", shared.NewDomainError("INVALID_TOKEN", "Scan input does not contain a valid token")
	}
	return token, nil
}

// Verify validates scanner input and appends a scan log entry. The input
// is a QR token, a verify URL, or an accreditation number typed in at the
// gate. The returned response mirrors what a gate device shows the operator.
func (s *ScanService) Verify(ctx context.Context, req VerifyScanRequest) (*ScanVerificationResponse, error) {
	var record *accreditation.AccreditationRecord

	input := strings.TrimSpace(req.Input)
	if number := strings.ToUpper(input); accNumberPattern.MatchString(number) {
		// Manual entry resolves by accreditation number
		var err error
		record, err = s.recordRepo.FindByNumber(ctx, number)
		if err != nil {
			// Unknown inputs leave no scan log; there is no record to attach it to
			return nil, err
		}
	} else {
		token, err := s.ExtractToken(input)
		if err != nil {
			return nil, err
		}
		record, err = s.recordRepo.FindByQRToken(ctx, token)
		if err != nil {
			return nil, err
		}
	}

	project, err := s.projectRepo.FindByID(ctx, record.ProjectID)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	result, validPhases := s.classify(record, project, now)

	log, err := accreditation.NewScanLog(
		record.ID,
		record.ProjectID,
		now,
		result,
		validPhases,
		req.ScannedBy,
		req.DeviceInfo,
		req.Location,
	)
	if err != nil {
		return nil, err
	}
	if err := s.scanLogRepo.Save(ctx, log); err != nil {
		// The log is the point of the scan; a failed append fails the scan
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, accreditation.NewScanRecordedEvent(log))
	}

	phases := make([]string, len(validPhases))
	for i, p := range validPhases {
		phases[i] = string(p)
	}

	resp := &ScanVerificationResponse{
		Valid:               result == accreditation.ScanResultValid,
		Result:              string(result),
		ValidPhases:         phases,
		AccreditationNumber: record.AccreditationNumber,
		FirstName:           record.Person.FirstName,
		LastName:            record.Person.LastName,
		Organization:        record.Person.Organization,
		AccessGroup:         record.Person.AccessGroup,
		PhotoURL:            record.PhotoURL,
		ProjectID:           &record.ProjectID,
		ScannedAt:           now,
	}
	return resp, nil
}

// classify computes the scan outcome for a record at the given instant.
// The phase list is computed regardless of the outcome so refusals still
// record which windows were open at the time.
func (s *ScanService) classify(record *accreditation.AccreditationRecord, project *accreditation.Project, now time.Time) (accreditation.ScanResult, []accreditation.Phase) {
	validPhases := record.PhasesValidAt(project, now)
	if record.IsRevoked() {
		return accreditation.ScanResultRevoked, validPhases
	}
	if record.Status != accreditation.RecordStatusApproved {
		return accreditation.ScanResultNotApproved, validPhases
	}
	if len(validPhases) == 0 {
		return accreditation.ScanResultOutOfWindow, nil
	}
	return accreditation.ScanResultValid, validPhases
}

// ListByRecord lists scan logs for one record, newest first
func (s *ScanService) ListByRecord(ctx context.Context, recordID uuid.UUID, page, pageSize int) ([]ScanLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := shared.Filter{Page: page, PageSize: pageSize}
	logs, err := s.scanLogRepo.FindByRecord(ctx, recordID, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.scanLogRepo.CountByRecord(ctx, recordID)
	if err != nil {
		return nil, 0, err
	}

	return ToScanLogResponses(logs), total, nil
}

// ListByProject lists scan logs for one project, newest first
func (s *ScanService) ListByProject(ctx context.Context, projectID uuid.UUID, page, pageSize int) ([]ScanLogResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	logs, err := s.scanLogRepo.FindByProject(ctx, projectID, shared.Filter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	return ToScanLogResponses(logs), nil
}

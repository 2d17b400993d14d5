package importapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	csvimport "github.com/becreativeqatar/bceportal/internal/infrastructure/import"
	"github.com/google/uuid"
)

// Template column names, in documented order
const (
	ColFirstName       = "First Name"
	ColLastName        = "Last Name"
	ColOrganization    = "Organization"
	ColJobTitle        = "Job Title"
	ColAccessGroup     = "Access Group"
	ColIDType          = "ID Type"
	ColQIDNumber       = "QID Number"
	ColQIDExpiry       = "QID Expiry"
	ColPassportNumber  = "Passport Number"
	ColPassportCountry = "Passport Country"
	ColPassportExpiry  = "Passport Expiry"
	ColHayyaNumber     = "Hayya Visa Number"
	ColHayyaExpiry     = "Hayya Visa Expiry"
)

const importDateFormat = "2006-01-02"

// TemplateColumns returns the CSV template columns in documented order
func TemplateColumns() []string {
	return []string{
		ColFirstName,
		ColLastName,
		ColOrganization,
		ColJobTitle,
		ColAccessGroup,
		ColIDType,
		ColQIDNumber,
		ColQIDExpiry,
		ColPassportNumber,
		ColPassportCountry,
		ColPassportExpiry,
		ColHayyaNumber,
		ColHayyaExpiry,
	}
}

// TemplateCSV returns the downloadable CSV template: the header row plus
// one example row per identification variant.
func TemplateCSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(TemplateColumns(), ","))
	b.WriteString("\n")
	b.WriteString("Fatima,Al-Thani,Qatar Media Corp,Producer,Media,QID,28912345678,2027-06-30,,,,,\n")
	b.WriteString("Omar,Hassan,Stage Crew Ltd,Rigger,Production,PASSPORT,,,A1234567,Egypt,2028-01-15,H98765432,2026-12-31\n")
	return b.String()
}

// AccreditationImportRow represents one row in a bulk import commit request
type AccreditationImportRow struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Organization    string `json:"organization" binding:"required"`
	JobTitle        string `json:"job_title" binding:"required"`
	AccessGroup     string `json:"access_group" binding:"required"`
	IDType          string `json:"id_type" binding:"required"`
	QIDNumber       string `json:"qid_number"`
	QIDExpiry       string `json:"qid_expiry"`
	PassportNumber  string `json:"passport_number"`
	PassportCountry string `json:"passport_country"`
	PassportExpiry  string `json:"passport_expiry"`
	HayyaVisaNumber string `json:"hayya_visa_number"`
	HayyaVisaExpiry string `json:"hayya_visa_expiry"`
}

// AccreditationImportResult represents the outcome of a bulk import commit
type AccreditationImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	FailedRows   int                  `json:"failed_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// AccreditationImportService handles accreditation bulk import operations.
// Validation and commit are separate steps: validate parses and checks a CSV
// file without writing anything, commit creates DRAFT records row by row.
type AccreditationImportService struct {
	recordRepo   accreditation.AccreditationRecordRepository
	projectRepo  accreditation.ProjectRepository
	sessionStore csvimport.SessionStore
	eventBus     shared.EventPublisher
	maxFileSize  int64
	maxRows      int
}

// AccreditationImportOption is a functional option for configuring the service
type AccreditationImportOption func(*AccreditationImportService)

// WithImportLimits overrides the file size and row count ceilings
func WithImportLimits(maxFileSize int64, maxRows int) AccreditationImportOption {
	return func(s *AccreditationImportService) {
		s.maxFileSize = maxFileSize
		s.maxRows = maxRows
	}
}

// NewAccreditationImportService creates a new AccreditationImportService
func NewAccreditationImportService(
	recordRepo accreditation.AccreditationRecordRepository,
	projectRepo accreditation.ProjectRepository,
	sessionStore csvimport.SessionStore,
	eventBus shared.EventPublisher,
	opts ...AccreditationImportOption,
) *AccreditationImportService {
	s := &AccreditationImportService{
		recordRepo:   recordRepo,
		projectRepo:  projectRepo,
		sessionStore: sessionStore,
		eventBus:     eventBus,
		maxFileSize:  5 * 1024 * 1024,
		maxRows:      5000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidationRules returns the per-column validation rules for a project
func (s *AccreditationImportService) ValidationRules(project *accreditation.Project) []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field(ColFirstName).Required().MinLength(1).MaxLength(100).Build(),
		csvimport.Field(ColLastName).Required().MinLength(1).MaxLength(100).Build(),
		csvimport.Field(ColOrganization).Required().MinLength(1).MaxLength(200).Build(),
		csvimport.Field(ColJobTitle).Required().MinLength(1).MaxLength(200).Build(),
		csvimport.Field(ColAccessGroup).Required().OneOf(project.AccessGroups...).Build(),
		csvimport.Field(ColIDType).Required().OneOf("QID", "PASSPORT").Build(),
		csvimport.Field(ColQIDNumber).Pattern(`^\d{11}$`, "11 digits").Unique().Build(),
		csvimport.Field(ColQIDExpiry).Date().DateFormat(importDateFormat).Build(),
		csvimport.Field(ColPassportNumber).MaxLength(50).Unique().Build(),
		csvimport.Field(ColPassportCountry).MaxLength(100).Build(),
		csvimport.Field(ColPassportExpiry).Date().DateFormat(importDateFormat).Build(),
		csvimport.Field(ColHayyaNumber).MaxLength(50).Build(),
		csvimport.Field(ColHayyaExpiry).Date().DateFormat(importDateFormat).Build(),
	}
}

// Validate parses and validates an uploaded CSV file without importing.
// The returned session is stored for later inspection.
func (s *AccreditationImportService) Validate(
	ctx context.Context,
	projectID, userID uuid.UUID,
	fileName string,
	data []byte,
) (*csvimport.ImportSession, *csvimport.ValidationResult, error) {
	if int64(len(data)) > s.maxFileSize {
		return nil, nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the maximum size of %d bytes", s.maxFileSize))
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if !project.Active {
		return nil, nil, shared.NewDomainError("INVALID_STATE", "Project is not active")
	}

	session := csvimport.NewImportSession(projectID, userID, fileName, int64(len(data)))

	processor := csvimport.NewImportProcessor(
		csvimport.WithMaxFileSize(s.maxFileSize),
		csvimport.WithMaxRows(s.maxRows),
		csvimport.WithTemplate(TemplateColumns()),
	)

	result, err := processor.Validate(ctx, session, bytes.NewReader(data), s.ValidationRules(project))
	if err != nil {
		if s.sessionStore != nil {
			_ = s.sessionStore.Save(session)
		}
		return session, nil, err
	}

	s.addIdentificationGroupErrors(data, result)

	session.SetValidationResult(result)
	if result.ErrorRows > 0 {
		session.UpdateState(csvimport.StateFailed)
	}
	if s.sessionStore != nil {
		_ = s.sessionStore.Save(session)
	}

	return session, result, nil
}

// addIdentificationGroupErrors runs the cross-field identification checks the
// per-column rules cannot express: exactly one identification group per row,
// matching the declared ID type, with Hayya details present for passports.
func (s *AccreditationImportService) addIdentificationGroupErrors(data []byte, result *csvimport.ValidationResult) {
	parser, err := csvimport.ParseFromBytes(data)
	if err != nil {
		return
	}
	if err := parser.ParseHeader(); err != nil {
		return
	}

	flagged := make(map[int]bool)
	for _, e := range result.Errors {
		flagged[e.Row] = true
	}

	for {
		row, err := parser.ReadRow()
		if err != nil {
			break
		}
		if row.IsEmpty() {
			continue
		}

		for _, rowErr := range identificationGroupErrors(row) {
			result.Errors = append(result.Errors, rowErr)
			result.TotalErrors++
			if !flagged[row.LineNumber] {
				flagged[row.LineNumber] = true
				result.ErrorRows++
				result.ValidRows--
			}
		}
	}
}

// identificationGroupErrors checks one row's identification field group
func identificationGroupErrors(row *csvimport.Row) []csvimport.RowError {
	var errs []csvimport.RowError

	idType := strings.ToUpper(strings.TrimSpace(row.Get(ColIDType)))
	hasQID := row.Get(ColQIDNumber) != "" || row.Get(ColQIDExpiry) != ""
	hasPassport := row.Get(ColPassportNumber) != "" || row.Get(ColPassportCountry) != "" ||
		row.Get(ColPassportExpiry) != "" || row.Get(ColHayyaNumber) != "" || row.Get(ColHayyaExpiry) != ""

	switch idType {
	case "QID":
		if row.Get(ColQIDNumber) == "" {
			errs = append(errs, csvimport.NewRowError(row.LineNumber, ColQIDNumber,
				csvimport.ErrCodeImportRequiredField, fmt.Sprintf("Field '%s' is required", ColQIDNumber)))
		}
		if row.Get(ColQIDExpiry) == "" {
			errs = append(errs, csvimport.NewRowError(row.LineNumber, ColQIDExpiry,
				csvimport.ErrCodeImportRequiredField, fmt.Sprintf("Field '%s' is required", ColQIDExpiry)))
		}
		if hasPassport {
			errs = append(errs, csvimport.NewRowError(row.LineNumber, ColPassportNumber,
				csvimport.ErrCodeImportValidation, "passport fields must be empty when ID Type is QID"))
		}
	case "PASSPORT":
		for _, col := range []string{ColPassportNumber, ColPassportCountry, ColPassportExpiry, ColHayyaNumber, ColHayyaExpiry} {
			if row.Get(col) == "" {
				errs = append(errs, csvimport.NewRowError(row.LineNumber, col,
					csvimport.ErrCodeImportRequiredField, fmt.Sprintf("Field '%s' is required", col)))
			}
		}
		if hasQID {
			errs = append(errs, csvimport.NewRowError(row.LineNumber, ColQIDNumber,
				csvimport.ErrCodeImportValidation, "QID fields must be empty when ID Type is PASSPORT"))
		}
	}

	return errs
}

// Commit imports rows into a project, creating DRAFT records row by row.
// Rows are processed sequentially with per-row error isolation; a bad row
// never aborts the batch.
func (s *AccreditationImportService) Commit(
	ctx context.Context,
	projectID, userID uuid.UUID,
	rows []AccreditationImportRow,
	skipDuplicates bool,
) (*AccreditationImportResult, error) {
	if len(rows) == 0 {
		return nil, shared.NewDomainError("EMPTY_IMPORT", "No rows to import")
	}
	if len(rows) > s.maxRows {
		return nil, shared.NewDomainError("TOO_MANY_ROWS",
			fmt.Sprintf("Import exceeds the maximum of %d rows", s.maxRows))
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Project is not active")
	}

	result := &AccreditationImportResult{TotalRows: len(rows)}
	errors := csvimport.NewErrorCollection(100)

	for i, row := range rows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Row numbers in errors are 1-based over the request payload
		s.commitRow(ctx, project, userID, i+1, row, skipDuplicates, result, errors)
	}

	result.Errors = errors.Errors()
	result.IsTruncated = errors.IsTruncated()
	result.TotalErrors = errors.TotalCount()

	return result, nil
}

// commitRow imports a single row; failures are recorded, never returned
func (s *AccreditationImportService) commitRow(
	ctx context.Context,
	project *accreditation.Project,
	userID uuid.UUID,
	rowNum int,
	row AccreditationImportRow,
	skipDuplicates bool,
	result *AccreditationImportResult,
	errors *csvimport.ErrorCollection,
) {
	ident, column, err := buildRowIdentification(row)
	if err != nil {
		errors.Add(csvimport.NewRowError(rowNum, column, csvimport.ErrCodeImportValidation, err.Error()))
		result.FailedRows++
		return
	}

	// Duplicate check against existing records in the project
	existing, err := s.recordRepo.FindByIdentification(ctx, project.ID, ident.PrimaryNumber())
	if err != nil {
		errors.Add(csvimport.NewRowError(rowNum, "", csvimport.ErrCodeImportUnknown, err.Error()))
		result.FailedRows++
		return
	}
	if len(existing) > 0 {
		if skipDuplicates {
			result.SkippedRows++
			return
		}
		errors.Add(csvimport.NewRowErrorWithValue(rowNum, ColIDType, csvimport.ErrCodeImportDuplicateInDB,
			fmt.Sprintf("a record with document number '%s' already exists in this project", ident.PrimaryNumber()),
			ident.PrimaryNumber()))
		result.FailedRows++
		return
	}

	number, err := s.recordRepo.GenerateNumber(ctx)
	if err != nil {
		errors.Add(csvimport.NewRowError(rowNum, "", csvimport.ErrCodeImportUnknown, err.Error()))
		result.FailedRows++
		return
	}

	record, err := accreditation.NewAccreditationRecord(
		project,
		number,
		accreditation.PersonInfo{
			FirstName:    strings.TrimSpace(row.FirstName),
			LastName:     strings.TrimSpace(row.LastName),
			Organization: strings.TrimSpace(row.Organization),
			JobTitle:     strings.TrimSpace(row.JobTitle),
			AccessGroup:  strings.TrimSpace(row.AccessGroup),
		},
		ident,
		userID,
	)
	if err != nil {
		errors.Add(csvimport.NewRowError(rowNum, "", csvimport.ErrCodeImportValidation, err.Error()))
		result.FailedRows++
		return
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		errors.Add(csvimport.NewRowError(rowNum, "", csvimport.ErrCodeImportUnknown, err.Error()))
		result.FailedRows++
		return
	}

	if s.eventBus != nil {
		for _, event := range record.GetDomainEvents() {
			_ = s.eventBus.Publish(ctx, event)
		}
		record.ClearDomainEvents()
	}

	result.ImportedRows++
}

// buildRowIdentification converts an import row's identification fields to the
// domain value object. The returned column names the offending field on error.
func buildRowIdentification(row AccreditationImportRow) (accreditation.Identification, string, error) {
	idType, err := accreditation.ParseIdentificationType(row.IDType)
	if err != nil {
		return accreditation.Identification{}, ColIDType, err
	}

	if idType == accreditation.IdentificationQID {
		expiry, err := time.Parse(importDateFormat, strings.TrimSpace(row.QIDExpiry))
		if err != nil {
			return accreditation.Identification{}, ColQIDExpiry, fmt.Errorf("invalid date, expected %s", importDateFormat)
		}
		ident, err := accreditation.NewQIDIdentification(strings.TrimSpace(row.QIDNumber), expiry)
		if err != nil {
			return accreditation.Identification{}, ColQIDNumber, err
		}
		return ident, "", nil
	}

	passportExpiry, err := time.Parse(importDateFormat, strings.TrimSpace(row.PassportExpiry))
	if err != nil {
		return accreditation.Identification{}, ColPassportExpiry, fmt.Errorf("invalid date, expected %s", importDateFormat)
	}
	hayyaExpiry, err := time.Parse(importDateFormat, strings.TrimSpace(row.HayyaVisaExpiry))
	if err != nil {
		return accreditation.Identification{}, ColHayyaExpiry, fmt.Errorf("invalid date, expected %s", importDateFormat)
	}
	ident, err := accreditation.NewPassportIdentification(
		strings.TrimSpace(row.PassportNumber),
		strings.TrimSpace(row.PassportCountry),
		passportExpiry,
		strings.TrimSpace(row.HayyaVisaNumber),
		hayyaExpiry,
	)
	if err != nil {
		return accreditation.Identification{}, ColPassportNumber, err
	}
	return ident, "", nil
}

// GetSession retrieves a stored import session
func (s *AccreditationImportService) GetSession(id uuid.UUID) (*csvimport.ImportSession, error) {
	if s.sessionStore == nil {
		return nil, shared.ErrNotFound
	}
	session, err := s.sessionStore.Get(id)
	if errors.Is(err, csvimport.ErrSessionNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions lists recent import sessions for a project
func (s *AccreditationImportService) ListSessions(projectID uuid.UUID, limit int) ([]*csvimport.ImportSession, error) {
	if s.sessionStore == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.sessionStore.GetByProject(projectID, limit)
}

package accreditation

import (
	"regexp"
	"strings"
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordStatus represents the lifecycle status of an accreditation record
type RecordStatus string

const (
	RecordStatusDraft    RecordStatus = "DRAFT"
	RecordStatusPending  RecordStatus = "PENDING"
	RecordStatusApproved RecordStatus = "APPROVED"
	RecordStatusRejected RecordStatus = "REJECTED"
)

// IsValid checks if the status is valid
func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusDraft, RecordStatusPending, RecordStatusApproved, RecordStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s RecordStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if transition to target status is valid
func (s RecordStatus) CanTransitionTo(target RecordStatus) bool {
	transitions := map[RecordStatus][]RecordStatus{
		RecordStatusDraft:    {RecordStatusPending},
		RecordStatusPending:  {RecordStatusApproved, RecordStatusRejected},
		RecordStatusApproved: {},
		RecordStatusRejected: {},
	}
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IdentificationType distinguishes the two supported identity document sets
type IdentificationType string

const (
	IdentificationQID      IdentificationType = "QID"
	IdentificationPassport IdentificationType = "PASSPORT"
)

// IsValid checks if the identification type is valid
func (t IdentificationType) IsValid() bool {
	return t == IdentificationQID || t == IdentificationPassport
}

// ParseIdentificationType parses a case-insensitive identification type string
func ParseIdentificationType(s string) (IdentificationType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(IdentificationQID):
		return IdentificationQID, nil
	case string(IdentificationPassport):
		return IdentificationPassport, nil
	}
	return "", shared.NewDomainError("INVALID_INPUT", "identification type must be QID or PASSPORT")
}

var qidPattern = regexp.MustCompile(`^\d{11}$`)

// Identification is the identity document set for one person. Exactly one of
// the two variants is populated at a time; switching variants clears the other.
type Identification struct {
	Type            IdentificationType `json:"type"`
	QIDNumber       string             `json:"qid_number,omitempty"`
	QIDExpiry       *time.Time         `json:"qid_expiry,omitempty"`
	PassportNumber  string             `json:"passport_number,omitempty"`
	PassportCountry string             `json:"passport_country,omitempty"`
	PassportExpiry  *time.Time         `json:"passport_expiry,omitempty"`
	HayyaVisaNumber string             `json:"hayya_visa_number,omitempty"`
	HayyaVisaExpiry *time.Time         `json:"hayya_visa_expiry,omitempty"`
}

// NewQIDIdentification builds the QID variant
func NewQIDIdentification(number string, expiry time.Time) (Identification, error) {
	number = strings.TrimSpace(number)
	if !qidPattern.MatchString(number) {
		return Identification{}, shared.NewDomainError("INVALID_QID", "QID number must be exactly 11 digits")
	}
	if expiry.IsZero() {
		return Identification{}, shared.NewDomainError("INVALID_INPUT", "QID expiry date is required")
	}
	return Identification{
		Type:      IdentificationQID,
		QIDNumber: number,
		QIDExpiry: &expiry,
	}, nil
}

// NewPassportIdentification builds the passport variant; a Hayya visa is mandatory
func NewPassportIdentification(passportNumber, passportCountry string, passportExpiry time.Time, hayyaNumber string, hayyaExpiry time.Time) (Identification, error) {
	passportNumber = strings.TrimSpace(passportNumber)
	passportCountry = strings.TrimSpace(passportCountry)
	hayyaNumber = strings.TrimSpace(hayyaNumber)
	if passportNumber == "" {
		return Identification{}, shared.NewDomainError("INVALID_INPUT", "passport number is required")
	}
	if passportCountry == "" {
		return Identification{}, shared.NewDomainError("INVALID_INPUT", "passport country is required")
	}
	if passportExpiry.IsZero() {
		return Identification{}, shared.NewDomainError("INVALID_INPUT", "passport expiry date is required")
	}
	if hayyaNumber == "" {
		return Identification{}, shared.NewDomainError("INVALID_INPUT", "Hayya visa number is required with a passport")
	}
	if hayyaExpiry.IsZero() {
		return Identification{}, shared.NewDomainError("INVALID_INPUT", "Hayya visa expiry date is required with a passport")
	}
	return Identification{
		Type:            IdentificationPassport,
		PassportNumber:  passportNumber,
		PassportCountry: passportCountry,
		PassportExpiry:  &passportExpiry,
		HayyaVisaNumber: hayyaNumber,
		HayyaVisaExpiry: &hayyaExpiry,
	}, nil
}

// PrimaryNumber returns the document number used for duplicate detection
func (i Identification) PrimaryNumber() string {
	if i.Type == IdentificationQID {
		return i.QIDNumber
	}
	return i.PassportNumber
}

// PersonInfo carries the personal details of an accredited individual
type PersonInfo struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization"`
	JobTitle     string `json:"job_title"`
	AccessGroup  string `json:"access_group"`
}

// AccreditationRecord is the aggregate root for one person's badge within a
// project. It owns the lifecycle status, the identity documents, the per-phase
// grants and the QR token that backs scan verification.
type AccreditationRecord struct {
	shared.AuditedAggregateRoot
	AccreditationNumber string         `json:"accreditation_number"`
	ProjectID           uuid.UUID      `json:"project_id"`
	Person              PersonInfo     `json:"person"`
	Identification      Identification `json:"identification"`
	Status              RecordStatus   `json:"status"`
	PhotoURL            string         `json:"photo_url,omitempty"`
	BumpInGrant         PhaseGrant     `json:"bump_in_grant"`
	LiveGrant           PhaseGrant     `json:"live_grant"`
	BumpOutGrant        PhaseGrant     `json:"bump_out_grant"`
	QRToken             *string        `json:"qr_token,omitempty"`
	SubmittedAt         *time.Time     `json:"submitted_at,omitempty"`
	ApprovedAt          *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy          *uuid.UUID     `json:"approved_by,omitempty"`
	RejectedAt          *time.Time     `json:"rejected_at,omitempty"`
	RejectedBy          *uuid.UUID     `json:"rejected_by,omitempty"`
	RejectionReason     string         `json:"rejection_reason,omitempty"`
	RevokedAt           *time.Time     `json:"revoked_at,omitempty"`
	RevokedBy           *uuid.UUID     `json:"revoked_by,omitempty"`
	RevocationReason    string         `json:"revocation_reason,omitempty"`
}

// NewAccreditationRecord creates a new record in DRAFT status. The person's
// access group must be one of the groups configured on the project.
func NewAccreditationRecord(project *Project, number string, person PersonInfo, ident Identification, createdBy uuid.UUID) (*AccreditationRecord, error) {
	if project == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "project is required")
	}
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "accreditation number is required")
	}
	if err := validatePerson(person); err != nil {
		return nil, err
	}
	if !ident.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "identification is required")
	}
	if !project.AllowsGroup(person.AccessGroup) {
		return nil, shared.NewDomainError("INVALID_ACCESS_GROUP", "access group "+person.AccessGroup+" is not configured for project "+project.Code)
	}

	record := &AccreditationRecord{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		AccreditationNumber:  number,
		ProjectID:            project.ID,
		Person:               person,
		Identification:       ident,
		Status:               RecordStatusDraft,
	}
	record.AddDomainEvent(NewRecordCreatedEvent(record))
	return record, nil
}

func validatePerson(person PersonInfo) error {
	if strings.TrimSpace(person.FirstName) == "" {
		return shared.NewDomainError("INVALID_INPUT", "first name is required")
	}
	if strings.TrimSpace(person.LastName) == "" {
		return shared.NewDomainError("INVALID_INPUT", "last name is required")
	}
	if strings.TrimSpace(person.Organization) == "" {
		return shared.NewDomainError("INVALID_INPUT", "organization is required")
	}
	if strings.TrimSpace(person.JobTitle) == "" {
		return shared.NewDomainError("INVALID_INPUT", "job title is required")
	}
	if strings.TrimSpace(person.AccessGroup) == "" {
		return shared.NewDomainError("INVALID_INPUT", "access group is required")
	}
	return nil
}

// UpdatePerson replaces the personal details; only allowed before a decision
func (r *AccreditationRecord) UpdatePerson(project *Project, person PersonInfo) error {
	if r.Status == RecordStatusApproved || r.Status == RecordStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "cannot edit a record after a decision has been made")
	}
	if err := validatePerson(person); err != nil {
		return err
	}
	if !project.AllowsGroup(person.AccessGroup) {
		return shared.NewDomainError("INVALID_ACCESS_GROUP", "access group "+person.AccessGroup+" is not configured for project "+project.Code)
	}
	r.Person = person
	return nil
}

// SetIdentification replaces the identity documents. Switching between the
// QID and passport variants clears every field of the other variant.
func (r *AccreditationRecord) SetIdentification(ident Identification) error {
	if r.Status == RecordStatusApproved || r.Status == RecordStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "cannot edit a record after a decision has been made")
	}
	if !ident.Type.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "identification type must be QID or PASSPORT")
	}
	r.Identification = ident
	return nil
}

// SetPhotoURL attaches or replaces the badge photo reference
func (r *AccreditationRecord) SetPhotoURL(url string) {
	r.PhotoURL = strings.TrimSpace(url)
}

// Grant returns the phase grant for the given phase
func (r *AccreditationRecord) Grant(phase Phase) PhaseGrant {
	switch phase {
	case PhaseBumpIn:
		return r.BumpInGrant
	case PhaseLive:
		return r.LiveGrant
	case PhaseBumpOut:
		return r.BumpOutGrant
	}
	return PhaseGrant{}
}

// SetGrant assigns the phase grant. An override window must lie entirely
// within the project's window for that phase.
func (r *AccreditationRecord) SetGrant(project *Project, phase Phase, grant PhaseGrant) error {
	if !phase.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "unknown phase "+phase.String())
	}
	if (grant.OverrideStart == nil) != (grant.OverrideEnd == nil) {
		return shared.NewDomainError("INVALID_WINDOW", "override window requires both start and end dates")
	}
	if grant.HasOverride() {
		override := grant.OverrideWindow()
		if override.Start.After(override.End) {
			return shared.NewDomainError("INVALID_WINDOW", "override window start must not be after its end")
		}
		projectWindow := project.Window(phase)
		if override.Start.Before(projectWindow.Start) || override.End.After(projectWindow.End) {
			return shared.NewDomainError("INVALID_WINDOW", "override window must lie within the project's "+phase.String()+" window")
		}
	}
	switch phase {
	case PhaseBumpIn:
		r.BumpInGrant = grant
	case PhaseLive:
		r.LiveGrant = grant
	case PhaseBumpOut:
		r.BumpOutGrant = grant
	}
	return nil
}

// EffectiveWindow resolves the window that bounds access for a phase: the
// grant override when present, otherwise the project's window. The second
// return value is false when the phase is not granted at all.
func (r *AccreditationRecord) EffectiveWindow(project *Project, phase Phase) (Window, bool) {
	grant := r.Grant(phase)
	if !grant.Enabled {
		return Window{}, false
	}
	if grant.HasOverride() {
		return grant.OverrideWindow(), true
	}
	return project.Window(phase), true
}

// PhasesValidAt returns the granted phases whose effective window contains t
func (r *AccreditationRecord) PhasesValidAt(project *Project, t time.Time) []Phase {
	var valid []Phase
	for _, phase := range AllPhases() {
		window, granted := r.EffectiveWindow(project, phase)
		if granted && window.Contains(t) {
			valid = append(valid, phase)
		}
	}
	return valid
}

// Submit moves the record from DRAFT to PENDING
func (r *AccreditationRecord) Submit(by uuid.UUID) error {
	if !r.Status.CanTransitionTo(RecordStatusPending) {
		return shared.NewDomainError("INVALID_STATE", "only DRAFT records can be submitted, current status is "+r.Status.String())
	}
	now := time.Now()
	r.Status = RecordStatusPending
	r.SubmittedAt = &now
	r.AddDomainEvent(NewRecordSubmittedEvent(r, by))
	return nil
}

// Approve moves the record from PENDING to APPROVED and assigns a QR token
// if the record does not already have one. Tokens are never reassigned.
func (r *AccreditationRecord) Approve(by uuid.UUID) error {
	if !r.Status.CanTransitionTo(RecordStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", "only PENDING records can be approved, current status is "+r.Status.String())
	}
	now := time.Now()
	r.Status = RecordStatusApproved
	r.ApprovedAt = &now
	r.ApprovedBy = &by
	if r.QRToken == nil {
		token := uuid.New().String()
		r.QRToken = &token
	}
	r.AddDomainEvent(NewRecordApprovedEvent(r, by))
	return nil
}

// Reject moves the record from PENDING to REJECTED
func (r *AccreditationRecord) Reject(by uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(RecordStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", "only PENDING records can be rejected, current status is "+r.Status.String())
	}
	now := time.Now()
	r.Status = RecordStatusRejected
	r.RejectedAt = &now
	r.RejectedBy = &by
	r.RejectionReason = strings.TrimSpace(reason)
	r.AddDomainEvent(NewRecordRejectedEvent(r, by, r.RejectionReason))
	return nil
}

// Revoke invalidates an approved record without changing its status. The QR
// token is kept so that scans of the old badge resolve to a clear refusal.
func (r *AccreditationRecord) Revoke(by uuid.UUID, reason string) error {
	if r.Status != RecordStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "only APPROVED records can be revoked, current status is "+r.Status.String())
	}
	if r.IsRevoked() {
		return shared.NewDomainError("INVALID_STATE", "record is already revoked")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "revocation reason is required")
	}
	now := time.Now()
	r.RevokedAt = &now
	r.RevokedBy = &by
	r.RevocationReason = reason
	r.AddDomainEvent(NewRecordRevokedEvent(r, by, reason))
	return nil
}

// IsRevoked reports whether the record has been revoked
func (r *AccreditationRecord) IsRevoked() bool {
	return r.RevokedAt != nil
}

// IsScannable reports whether the badge can ever pass a scan check:
// approved and not revoked. Phase windows are checked separately.
func (r *AccreditationRecord) IsScannable() bool {
	return r.Status == RecordStatusApproved && !r.IsRevoked()
}

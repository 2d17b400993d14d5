package models

import (
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProjectModel is the persistence model for the Project aggregate root.
type ProjectModel struct {
	AuditedAggregateModel
	Name         string         `gorm:"type:varchar(200);not null"`
	Code         string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_projects_code"`
	Description  string         `gorm:"type:text"`
	AccessGroups pq.StringArray `gorm:"type:text[];not null"`
	BumpInStart  time.Time      `gorm:"not null"`
	BumpInEnd    time.Time      `gorm:"not null"`
	LiveStart    time.Time      `gorm:"not null"`
	LiveEnd      time.Time      `gorm:"not null"`
	BumpOutStart time.Time      `gorm:"not null"`
	BumpOutEnd   time.Time      `gorm:"not null"`
	Active       bool           `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *accreditation.Project {
	project := &accreditation.Project{
		Name:         m.Name,
		Code:         m.Code,
		Description:  m.Description,
		AccessGroups: m.AccessGroups,
		BumpIn:       accreditation.Window{Start: m.BumpInStart, End: m.BumpInEnd},
		Live:         accreditation.Window{Start: m.LiveStart, End: m.LiveEnd},
		BumpOut:      accreditation.Window{Start: m.BumpOutStart, End: m.BumpOutEnd},
		Active:       m.Active,
	}
	m.PopulateAuditedAggregateRoot(&project.AuditedAggregateRoot)
	return project
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *accreditation.Project) {
	m.FromDomainAuditedAggregateRoot(p.AuditedAggregateRoot)
	m.Name = p.Name
	m.Code = p.Code
	m.Description = p.Description
	m.AccessGroups = p.AccessGroups
	m.BumpInStart = p.BumpIn.Start
	m.BumpInEnd = p.BumpIn.End
	m.LiveStart = p.Live.Start
	m.LiveEnd = p.Live.End
	m.BumpOutStart = p.BumpOut.Start
	m.BumpOutEnd = p.BumpOut.End
	m.Active = p.Active
}

// AccreditationRecordModel is the persistence model for the AccreditationRecord aggregate root.
type AccreditationRecordModel struct {
	AuditedAggregateModel
	AccreditationNumber string                           `gorm:"type:varchar(50);not null;uniqueIndex:idx_records_number"`
	ProjectID           uuid.UUID                        `gorm:"type:uuid;not null;index"`
	FirstName           string                           `gorm:"type:varchar(100);not null"`
	LastName            string                           `gorm:"type:varchar(100);not null"`
	Organization        string                           `gorm:"type:varchar(200)"`
	JobTitle            string                           `gorm:"type:varchar(200)"`
	AccessGroup         string                           `gorm:"type:varchar(100);not null;index"`
	IDType              accreditation.IdentificationType `gorm:"type:varchar(20);not null"`
	QIDNumber           string                           `gorm:"column:qid_number;type:varchar(11);index"`
	QIDExpiry           *time.Time                       `gorm:"column:qid_expiry"`
	PassportNumber      string                           `gorm:"type:varchar(50);index"`
	PassportCountry     string                           `gorm:"type:varchar(100)"`
	PassportExpiry      *time.Time
	HayyaVisaNumber     string `gorm:"type:varchar(50)"`
	HayyaVisaExpiry     *time.Time
	Status              accreditation.RecordStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PhotoURL            string                     `gorm:"type:varchar(500)"`
	BumpInEnabled       bool                       `gorm:"not null;default:false"`
	BumpInStart         *time.Time
	BumpInEnd           *time.Time
	LiveEnabled         bool `gorm:"not null;default:false"`
	LiveStart           *time.Time
	LiveEnd             *time.Time
	BumpOutEnabled      bool `gorm:"not null;default:false"`
	BumpOutStart        *time.Time
	BumpOutEnd          *time.Time
	QRToken             *string    `gorm:"type:varchar(50);uniqueIndex:idx_records_qr_token"`
	SubmittedAt         *time.Time `gorm:"index"`
	ApprovedAt          *time.Time
	ApprovedBy          *uuid.UUID `gorm:"type:uuid"`
	RejectedAt          *time.Time
	RejectedBy          *uuid.UUID `gorm:"type:uuid"`
	RejectionReason     string     `gorm:"type:varchar(500)"`
	RevokedAt           *time.Time `gorm:"index"`
	RevokedBy           *uuid.UUID `gorm:"type:uuid"`
	RevocationReason    string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AccreditationRecordModel) TableName() string {
	return "accreditation_records"
}

// ToDomain converts the persistence model to a domain AccreditationRecord entity.
func (m *AccreditationRecordModel) ToDomain() *accreditation.AccreditationRecord {
	record := &accreditation.AccreditationRecord{
		AccreditationNumber: m.AccreditationNumber,
		ProjectID:           m.ProjectID,
		Person: accreditation.PersonInfo{
			FirstName:    m.FirstName,
			LastName:     m.LastName,
			Organization: m.Organization,
			JobTitle:     m.JobTitle,
			AccessGroup:  m.AccessGroup,
		},
		Identification: accreditation.Identification{
			Type:            m.IDType,
			QIDNumber:       m.QIDNumber,
			QIDExpiry:       m.QIDExpiry,
			PassportNumber:  m.PassportNumber,
			PassportCountry: m.PassportCountry,
			PassportExpiry:  m.PassportExpiry,
			HayyaVisaNumber: m.HayyaVisaNumber,
			HayyaVisaExpiry: m.HayyaVisaExpiry,
		},
		Status:   m.Status,
		PhotoURL: m.PhotoURL,
		BumpInGrant: accreditation.PhaseGrant{
			Enabled:       m.BumpInEnabled,
			OverrideStart: m.BumpInStart,
			OverrideEnd:   m.BumpInEnd,
		},
		LiveGrant: accreditation.PhaseGrant{
			Enabled:       m.LiveEnabled,
			OverrideStart: m.LiveStart,
			OverrideEnd:   m.LiveEnd,
		},
		BumpOutGrant: accreditation.PhaseGrant{
			Enabled:       m.BumpOutEnabled,
			OverrideStart: m.BumpOutStart,
			OverrideEnd:   m.BumpOutEnd,
		},
		QRToken:          m.QRToken,
		SubmittedAt:      m.SubmittedAt,
		ApprovedAt:       m.ApprovedAt,
		ApprovedBy:       m.ApprovedBy,
		RejectedAt:       m.RejectedAt,
		RejectedBy:       m.RejectedBy,
		RejectionReason:  m.RejectionReason,
		RevokedAt:        m.RevokedAt,
		RevokedBy:        m.RevokedBy,
		RevocationReason: m.RevocationReason,
	}
	m.PopulateAuditedAggregateRoot(&record.AuditedAggregateRoot)
	return record
}

// FromDomain populates the persistence model from a domain AccreditationRecord entity.
func (m *AccreditationRecordModel) FromDomain(r *accreditation.AccreditationRecord) {
	m.FromDomainAuditedAggregateRoot(r.AuditedAggregateRoot)
	m.AccreditationNumber = r.AccreditationNumber
	m.ProjectID = r.ProjectID
	m.FirstName = r.Person.FirstName
	m.LastName = r.Person.LastName
	m.Organization = r.Person.Organization
	m.JobTitle = r.Person.JobTitle
	m.AccessGroup = r.Person.AccessGroup
	m.IDType = r.Identification.Type
	m.QIDNumber = r.Identification.QIDNumber
	m.QIDExpiry = r.Identification.QIDExpiry
	m.PassportNumber = r.Identification.PassportNumber
	m.PassportCountry = r.Identification.PassportCountry
	m.PassportExpiry = r.Identification.PassportExpiry
	m.HayyaVisaNumber = r.Identification.HayyaVisaNumber
	m.HayyaVisaExpiry = r.Identification.HayyaVisaExpiry
	m.Status = r.Status
	m.PhotoURL = r.PhotoURL
	m.BumpInEnabled = r.BumpInGrant.Enabled
	m.BumpInStart = r.BumpInGrant.OverrideStart
	m.BumpInEnd = r.BumpInGrant.OverrideEnd
	m.LiveEnabled = r.LiveGrant.Enabled
	m.LiveStart = r.LiveGrant.OverrideStart
	m.LiveEnd = r.LiveGrant.OverrideEnd
	m.BumpOutEnabled = r.BumpOutGrant.Enabled
	m.BumpOutStart = r.BumpOutGrant.OverrideStart
	m.BumpOutEnd = r.BumpOutGrant.OverrideEnd
	m.QRToken = r.QRToken
	m.SubmittedAt = r.SubmittedAt
	m.ApprovedAt = r.ApprovedAt
	m.ApprovedBy = r.ApprovedBy
	m.RejectedAt = r.RejectedAt
	m.RejectedBy = r.RejectedBy
	m.RejectionReason = r.RejectionReason
	m.RevokedAt = r.RevokedAt
	m.RevokedBy = r.RevokedBy
	m.RevocationReason = r.RevocationReason
}

// ScanLogModel is the persistence model for scan log entries.
// Scan logs are append-only; rows are never updated or deleted.
type ScanLogModel struct {
	BaseModel
	RecordID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	ProjectID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	ScannedAt   time.Time                `gorm:"not null;index"`
	Result      accreditation.ScanResult `gorm:"type:varchar(20);not null"`
	ValidPhases pq.StringArray           `gorm:"type:text[]"`
	ScannedBy   *uuid.UUID               `gorm:"type:uuid"`
	DeviceInfo  string                   `gorm:"type:varchar(200)"`
	Location    string                   `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ScanLogModel) TableName() string {
	return "scan_logs"
}

// ToDomain converts the persistence model to a domain ScanLog entity.
func (m *ScanLogModel) ToDomain() *accreditation.ScanLog {
	phases := make([]accreditation.Phase, len(m.ValidPhases))
	for i, p := range m.ValidPhases {
		phases[i] = accreditation.Phase(p)
	}
	return &accreditation.ScanLog{
		BaseEntity:  m.BaseModel.ToDomain(),
		RecordID:    m.RecordID,
		ProjectID:   m.ProjectID,
		ScannedAt:   m.ScannedAt,
		Result:      m.Result,
		ValidPhases: phases,
		ScannedBy:   m.ScannedBy,
		DeviceInfo:  m.DeviceInfo,
		Location:    m.Location,
	}
}

// FromDomain populates the persistence model from a domain ScanLog entity.
func (m *ScanLogModel) FromDomain(l *accreditation.ScanLog) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.RecordID = l.RecordID
	m.ProjectID = l.ProjectID
	m.ScannedAt = l.ScannedAt
	m.Result = l.Result
	m.ValidPhases = make(pq.StringArray, len(l.ValidPhases))
	for i, p := range l.ValidPhases {
		m.ValidPhases[i] = string(p)
	}
	m.ScannedBy = l.ScannedBy
	m.DeviceInfo = l.DeviceInfo
	m.Location = l.Location
}

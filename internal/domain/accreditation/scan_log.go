package accreditation

import (
	"strings"
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
)

// ScanResult categorizes the outcome of a QR verification attempt
type ScanResult string

const (
	ScanResultValid       ScanResult = "VALID"
	ScanResultNotApproved ScanResult = "NOT_APPROVED"
	ScanResultRevoked     ScanResult = "REVOKED"
	ScanResultOutOfWindow ScanResult = "OUT_OF_WINDOW"
)

// IsValid checks if the scan result is valid
func (r ScanResult) IsValid() bool {
	switch r {
	case ScanResultValid, ScanResultNotApproved, ScanResultRevoked, ScanResultOutOfWindow:
		return true
	}
	return false
}

// String returns the string representation of the scan result
func (r ScanResult) String() string {
	return string(r)
}

// ScanLog is an append-only audit entry for one verification attempt against a
// known record. Attempts that resolve to no record are never logged.
type ScanLog struct {
	shared.BaseEntity
	RecordID    uuid.UUID  `json:"record_id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	ScannedAt   time.Time  `json:"scanned_at"`
	Result      ScanResult `json:"result"`
	ValidPhases []Phase    `json:"valid_phases"`
	ScannedBy   *uuid.UUID `json:"scanned_by,omitempty"`
	DeviceInfo  string     `json:"device_info,omitempty"`
	Location    string     `json:"location,omitempty"`
}

// NewScanLog creates a scan log entry; entries are immutable once created
func NewScanLog(recordID, projectID uuid.UUID, scannedAt time.Time, result ScanResult, validPhases []Phase, scannedBy *uuid.UUID, deviceInfo, location string) (*ScanLog, error) {
	if recordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "scan log requires a record")
	}
	if !result.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown scan result "+result.String())
	}
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}
	return &ScanLog{
		BaseEntity:  shared.NewBaseEntity(),
		RecordID:    recordID,
		ProjectID:   projectID,
		ScannedAt:   scannedAt,
		Result:      result,
		ValidPhases: validPhases,
		ScannedBy:   scannedBy,
		DeviceInfo:  strings.TrimSpace(deviceInfo),
		Location:    strings.TrimSpace(location),
	}, nil
}

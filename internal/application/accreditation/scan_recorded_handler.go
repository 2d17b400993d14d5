package accreditation

import (
	"context"
	"fmt"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"go.uber.org/zap"
)

// ScanRecordedHandler handles ScanRecordedEvent and writes an audit line
// for every gate scan, whatever the outcome.
type ScanRecordedHandler struct {
	logger *zap.Logger
}

// NewScanRecordedHandler creates a new handler for scan recorded events
func NewScanRecordedHandler(logger *zap.Logger) *ScanRecordedHandler {
	return &ScanRecordedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ScanRecordedHandler) EventTypes() []string {
	return []string{accreditation.EventTypeScanRecorded}
}

// Handle processes a ScanRecordedEvent
func (h *ScanRecordedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	scanEvent, ok := event.(*accreditation.ScanRecordedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", accreditation.EventTypeScanRecorded),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			accreditation.EventTypeScanRecorded, event.EventType())
	}

	h.logger.Info("scan recorded",
		zap.String("scan_log_id", scanEvent.ScanLogID.String()),
		zap.String("record_id", scanEvent.RecordID.String()),
		zap.String("project_id", scanEvent.ProjectID.String()),
		zap.String("result", string(scanEvent.Result)),
		zap.Time("scanned_at", scanEvent.ScannedAt),
	)
	return nil
}

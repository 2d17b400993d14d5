package accreditation

import (
	"context"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"go.uber.org/zap"
)

// RecordLifecycleHandler writes an audit line for every lifecycle
// transition of an accreditation record. Approval desks reconcile
// against these lines, so the handler logs and never fails the bus.
type RecordLifecycleHandler struct {
	logger *zap.Logger
}

// NewRecordLifecycleHandler creates a new handler for record lifecycle events
func NewRecordLifecycleHandler(logger *zap.Logger) *RecordLifecycleHandler {
	return &RecordLifecycleHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *RecordLifecycleHandler) EventTypes() []string {
	return []string{
		accreditation.EventTypeRecordCreated,
		accreditation.EventTypeRecordSubmitted,
		accreditation.EventTypeRecordApproved,
		accreditation.EventTypeRecordRejected,
		accreditation.EventTypeRecordRevoked,
	}
}

// Handle processes a record lifecycle event
func (h *RecordLifecycleHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *accreditation.RecordCreatedEvent:
		h.logger.Info("record created",
			zap.String("record_id", e.RecordID.String()),
			zap.String("project_id", e.ProjectID.String()),
			zap.String("accreditation_number", e.AccreditationNumber),
			zap.String("access_group", e.AccessGroup),
		)
	case *accreditation.RecordSubmittedEvent:
		h.logger.Info("record submitted",
			zap.String("record_id", e.RecordID.String()),
			zap.String("accreditation_number", e.AccreditationNumber),
			zap.String("submitted_by", e.SubmittedBy.String()),
		)
	case *accreditation.RecordApprovedEvent:
		h.logger.Info("record approved",
			zap.String("record_id", e.RecordID.String()),
			zap.String("accreditation_number", e.AccreditationNumber),
			zap.String("approved_by", e.ApprovedBy.String()),
		)
	case *accreditation.RecordRejectedEvent:
		h.logger.Info("record rejected",
			zap.String("record_id", e.RecordID.String()),
			zap.String("accreditation_number", e.AccreditationNumber),
			zap.String("rejected_by", e.RejectedBy.String()),
			zap.String("reason", e.Reason),
		)
	case *accreditation.RecordRevokedEvent:
		h.logger.Warn("record revoked",
			zap.String("record_id", e.RecordID.String()),
			zap.String("accreditation_number", e.AccreditationNumber),
			zap.String("revoked_by", e.RevokedBy.String()),
			zap.String("reason", e.Reason),
		)
	default:
		h.logger.Debug("ignoring unhandled event",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

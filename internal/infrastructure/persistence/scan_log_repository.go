package persistence

import (
	"context"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/becreativeqatar/bceportal/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScanLogRepository implements ScanLogRepository using GORM.
// Scan logs are append-only; no update or delete is exposed.
type GormScanLogRepository struct {
	db *gorm.DB
}

// NewGormScanLogRepository creates a new GormScanLogRepository
func NewGormScanLogRepository(db *gorm.DB) *GormScanLogRepository {
	return &GormScanLogRepository{db: db}
}

// Save appends a scan log entry
func (r *GormScanLogRepository) Save(ctx context.Context, log *accreditation.ScanLog) error {
	var model models.ScanLogModel
	model.FromDomain(log)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	log.CreatedAt = model.CreatedAt
	log.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByRecord lists scan logs for one record, newest first
func (r *GormScanLogRepository) FindByRecord(ctx context.Context, recordID uuid.UUID, filter shared.Filter) ([]accreditation.ScanLog, error) {
	return r.findWhere(ctx, "record_id = ?", recordID, filter)
}

// FindByProject lists scan logs for one project, newest first
func (r *GormScanLogRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]accreditation.ScanLog, error) {
	return r.findWhere(ctx, "project_id = ?", projectID, filter)
}

// CountByRecord counts scan logs for one record
func (r *GormScanLogRepository) CountByRecord(ctx context.Context, recordID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ScanLogModel{}).
		Where("record_id = ?", recordID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormScanLogRepository) findWhere(ctx context.Context, condition string, id uuid.UUID, filter shared.Filter) ([]accreditation.ScanLog, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ScanLogModel{}).
		Where(condition, id).
		Order("scanned_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var logModels []models.ScanLogModel
	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]accreditation.ScanLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/becreativeqatar/bceportal/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccreditationRecordRepository implements AccreditationRecordRepository using GORM
type GormAccreditationRecordRepository struct {
	db *gorm.DB
}

// NewGormAccreditationRecordRepository creates a new GormAccreditationRecordRepository
func NewGormAccreditationRecordRepository(db *gorm.DB) *GormAccreditationRecordRepository {
	return &GormAccreditationRecordRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormAccreditationRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*accreditation.AccreditationRecord, error) {
	var model models.AccreditationRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a record by its accreditation number
func (r *GormAccreditationRecordRepository) FindByNumber(ctx context.Context, number string) (*accreditation.AccreditationRecord, error) {
	var model models.AccreditationRecordModel
	if err := r.db.WithContext(ctx).
		Where("accreditation_number = ?", strings.ToUpper(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByQRToken finds a record by its QR token
func (r *GormAccreditationRecordRepository) FindByQRToken(ctx context.Context, token string) (*accreditation.AccreditationRecord, error) {
	if token == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token cannot be empty")
	}
	var model models.AccreditationRecordModel
	if err := r.db.WithContext(ctx).
		Where("qr_token = ?", token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIdentification finds records in a project carrying the given document number.
// Both QID and passport numbers are matched so duplicate detection covers either variant.
func (r *GormAccreditationRecordRepository) FindByIdentification(ctx context.Context, projectID uuid.UUID, documentNumber string) ([]accreditation.AccreditationRecord, error) {
	var recordModels []models.AccreditationRecordModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND (qid_number = ? OR UPPER(passport_number) = ?)",
			projectID, documentNumber, strings.ToUpper(documentNumber)).
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]accreditation.AccreditationRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindAll finds records matching the filter
func (r *GormAccreditationRecordRepository) FindAll(ctx context.Context, filter accreditation.RecordFilter) ([]accreditation.AccreditationRecord, error) {
	var recordModels []models.AccreditationRecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AccreditationRecordModel{}), filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]accreditation.AccreditationRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save creates or updates a record
func (r *GormAccreditationRecordRepository) Save(ctx context.Context, record *accreditation.AccreditationRecord) error {
	var model models.AccreditationRecordModel
	model.FromDomain(record)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return err
	}
	record.UpdatedAt = model.UpdatedAt
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormAccreditationRecordRepository) SaveWithLock(ctx context.Context, record *accreditation.AccreditationRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.AccreditationRecordModel{}).
			Where("id = ?", record.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != record.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The record has been modified by another user")
		}

		record.Version++
		record.UpdatedAt = time.Now()

		var model models.AccreditationRecordModel
		model.FromDomain(record)

		result := tx.Model(&models.AccreditationRecordModel{}).
			Where("id = ? AND version = ?", record.ID, currentVersion).
			Updates(map[string]interface{}{
				"first_name":        model.FirstName,
				"last_name":         model.LastName,
				"organization":      model.Organization,
				"job_title":         model.JobTitle,
				"access_group":      model.AccessGroup,
				"id_type":           model.IDType,
				"qid_number":        model.QIDNumber,
				"qid_expiry":        model.QIDExpiry,
				"passport_number":   model.PassportNumber,
				"passport_country":  model.PassportCountry,
				"passport_expiry":   model.PassportExpiry,
				"hayya_visa_number": model.HayyaVisaNumber,
				"hayya_visa_expiry": model.HayyaVisaExpiry,
				"status":            model.Status,
				"photo_url":         model.PhotoURL,
				"bump_in_enabled":   model.BumpInEnabled,
				"bump_in_start":     model.BumpInStart,
				"bump_in_end":       model.BumpInEnd,
				"live_enabled":      model.LiveEnabled,
				"live_start":        model.LiveStart,
				"live_end":          model.LiveEnd,
				"bump_out_enabled":  model.BumpOutEnabled,
				"bump_out_start":    model.BumpOutStart,
				"bump_out_end":      model.BumpOutEnd,
				"qr_token":          model.QRToken,
				"submitted_at":      model.SubmittedAt,
				"approved_at":       model.ApprovedAt,
				"approved_by":       model.ApprovedBy,
				"rejected_at":       model.RejectedAt,
				"rejected_by":       model.RejectedBy,
				"rejection_reason":  model.RejectionReason,
				"revoked_at":        model.RevokedAt,
				"revoked_by":        model.RevokedBy,
				"revocation_reason": model.RevocationReason,
				"version":           model.Version,
				"updated_at":        model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The record has been modified by another user")
		}
		return nil
	})
}

// Delete deletes a record
func (r *GormAccreditationRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AccreditationRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts records matching the filter
func (r *GormAccreditationRecordRepository) Count(ctx context.Context, filter accreditation.RecordFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AccreditationRecordModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts records in a project by status
func (r *GormAccreditationRecordRepository) CountByStatus(ctx context.Context, projectID uuid.UUID, status accreditation.RecordStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccreditationRecordModel{}).
		Where("project_id = ? AND status = ?", projectID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates a unique accreditation number.
// Format: ACC-YYYY-NNNNN (e.g., ACC-2026-00001)
func (r *GormAccreditationRecordRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ACC-%d-", year)

	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&models.AccreditationRecordModel{}).
		Where("accreditation_number LIKE ?", prefix+"%").
		Order("accreditation_number DESC").
		Limit(1).
		Pluck("accreditation_number", &lastNumber).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if lastNumber != "" {
		parts := strings.Split(lastNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormAccreditationRecordRepository) applyFilter(query *gorm.DB, filter accreditation.RecordFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering against the column whitelist
	sortField := ValidateSortField(filter.OrderBy, RecordSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAccreditationRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter accreditation.RecordFilter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR accreditation_number ILIKE ? OR organization ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AccessGroup != "" {
		query = query.Where("access_group = ?", filter.AccessGroup)
	}
	if filter.Revoked != nil {
		if *filter.Revoked {
			query = query.Where("revoked_at IS NOT NULL")
		} else {
			query = query.Where("revoked_at IS NULL")
		}
	}

	return query
}

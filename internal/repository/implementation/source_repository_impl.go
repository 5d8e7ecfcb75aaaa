package implementation

import (
	"context"
	"errors"

	"rag-knowledge-be/internal/apperror"
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/mapper"
	"rag-knowledge-be/internal/model"
	"rag-knowledge-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SourceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SourceMapper
}

func NewSourceRepository(db *gorm.DB) contract.SourceRepository {
	return &SourceRepositoryImpl{
		db:     db,
		mapper: mapper.NewSourceMapper(),
	}
}

func (r *SourceRepositoryImpl) findByPath(ctx context.Context, path string) (*model.Source, error) {
	var m model.Source
	err := r.db.WithContext(ctx).Where("path = ?", path).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *SourceRepositoryImpl) GetOrCreate(ctx context.Context, path string, kind entity.SourceKind) (*entity.Source, error) {
	existing, err := r.findByPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Appending content to a known path does not touch the row.
		return r.mapper.ToEntity(existing), nil
	}

	m := &model.Source{
		Id:         uuid.New(),
		Path:       path,
		Kind:       string(kind),
		IsAccepted: true,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(m), nil
}

func (r *SourceRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Source, error) {
	var m model.Source
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SourceRepositoryImpl) Approve(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Source{}).
		Where("id = ?", id).
		Update("is_accepted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.Newf(apperror.KindValidation, "source %s not found", id)
	}
	return nil
}

func (r *SourceRepositoryImpl) Reject(ctx context.Context, id uuid.UUID, reason entity.RejectReason) error {
	var reasonRow model.RejectReason
	err := r.db.WithContext(ctx).Where("reason = ?", string(reason)).First(&reasonRow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Newf(apperror.KindValidation, "invalid rejection reason: %s", reason)
		}
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&model.Source{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_accepted":      false,
			"rejection_reason": reasonRow.Reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.Newf(apperror.KindValidation, "source %s not found", id)
	}
	return nil
}

func (r *SourceRepositoryImpl) List(ctx context.Context, filter contract.SourceListFilter) ([]*entity.Source, error) {
	query := r.db.WithContext(ctx).Model(&model.Source{})

	if filter.OnlyAccepted != nil {
		query = query.Where("is_accepted = ?", *filter.OnlyAccepted)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", string(filter.Kind))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var models []*model.Source
	if err := query.Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

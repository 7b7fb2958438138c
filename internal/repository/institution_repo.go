package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	pkgerrors "github.com/RoobanKR/LMS-Server-sub001/pkg/errors"
)

// InstitutionRepository 机构数据访问接口
type InstitutionRepository interface {
	Create(ctx context.Context, inst *model.Institution) error
	GetByID(ctx context.Context, id string) (*model.Institution, error)
	GetByCode(ctx context.Context, code string) (*model.Institution, error)
	List(ctx context.Context, includeInactive bool, offset, limit int) ([]model.Institution, int64, error)
	Update(ctx context.Context, inst *model.Institution) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountUsers(ctx context.Context, id string) (int64, error)
}

// institutionRepo InstitutionRepository 的 GORM 实现
type institutionRepo struct {
	db *gorm.DB
}

// NewInstitutionRepo 创建 InstitutionRepository 实例
func NewInstitutionRepo(db *gorm.DB) InstitutionRepository {
	return &institutionRepo{db: db}
}

func (r *institutionRepo) Create(ctx context.Context, inst *model.Institution) error {
	return r.db.WithContext(ctx).Create(inst).Error
}

func (r *institutionRepo) GetByID(ctx context.Context, id string) (*model.Institution, error) {
	var inst model.Institution
	err := r.db.WithContext(ctx).
		Where("institution_id = ?", id).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *institutionRepo) GetByCode(ctx context.Context, code string) (*model.Institution, error) {
	var inst model.Institution
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *institutionRepo) List(ctx context.Context, includeInactive bool, offset, limit int) ([]model.Institution, int64, error) {
	var insts []model.Institution
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Institution{})
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&insts).Error; err != nil {
		return nil, 0, err
	}

	return insts, total, nil
}

func (r *institutionRepo) Update(ctx context.Context, inst *model.Institution) error {
	oldVersion := inst.Version
	result := r.db.WithContext(ctx).
		Model(inst).
		Where("institution_id = ? AND version = ?", inst.InstitutionID, oldVersion).
		Updates(map[string]interface{}{
			"name":          inst.Name,
			"address":       inst.Address,
			"contact_email": inst.ContactEmail,
			"is_active":     inst.IsActive,
			"updated_by":    inst.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	inst.Version = oldVersion + 1
	return nil
}

func (r *institutionRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Institution{}).
		Where("institution_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *institutionRepo) CountUsers(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("institution_id = ?", id).
		Count(&count).Error
	return count, err
}

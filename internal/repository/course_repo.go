package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	pkgerrors "github.com/RoobanKR/LMS-Server-sub001/pkg/errors"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// GetTree 加载课程及完整大纲树（模块→子模块→主题→子主题，按 position 排序）
	GetTree(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, institutionID, ownerID string, offset, limit int) ([]model.Course, int64, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// SyllabusRepository 大纲节点数据访问接口
// 四层节点的增删改查；删除级联由数据库外键完成
type SyllabusRepository interface {
	CreateModule(ctx context.Context, m *model.CourseModule) error
	GetModule(ctx context.Context, id string) (*model.CourseModule, error)
	UpdateModule(ctx context.Context, m *model.CourseModule) error
	DeleteModule(ctx context.Context, id string) error

	CreateSubModule(ctx context.Context, sm *model.SubModule) error
	GetSubModule(ctx context.Context, id string) (*model.SubModule, error)
	UpdateSubModule(ctx context.Context, sm *model.SubModule) error
	DeleteSubModule(ctx context.Context, id string) error

	CreateTopic(ctx context.Context, t *model.Topic) error
	GetTopic(ctx context.Context, id string) (*model.Topic, error)
	UpdateTopic(ctx context.Context, t *model.Topic) error
	DeleteTopic(ctx context.Context, id string) error

	CreateSubTopic(ctx context.Context, st *model.SubTopic) error
	GetSubTopic(ctx context.Context, id string) (*model.SubTopic, error)
	UpdateSubTopic(ctx context.Context, st *model.SubTopic) error
	DeleteSubTopic(ctx context.Context, id string) error
}

// courseRepo CourseRepository 的 GORM 实现
type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Institution").
		Preload("Owner").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetTree(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		// 模块直属主题（未挂在任何子模块下）
		Preload("Modules.Topics", func(db *gorm.DB) *gorm.DB {
			return db.Where("sub_module_id IS NULL").Order("position ASC")
		}).
		Preload("Modules.Topics.SubTopics", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Modules.SubModules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Modules.SubModules.Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Modules.SubModules.Topics.SubTopics", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, institutionID, ownerID string, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})
	if institutionID != "" {
		db = db.Where("institution_id = ?", institutionID)
	}
	if ownerID != "" {
		db = db.Where("owner_id = ?", ownerID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Owner").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	oldVersion := course.Version
	result := r.db.WithContext(ctx).
		Model(course).
		Where("course_id = ? AND version = ?", course.CourseID, oldVersion).
		Updates(map[string]interface{}{
			"title":       course.Title,
			"code":        course.Code,
			"description": course.Description,
			"updated_by":  course.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version = oldVersion + 1
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

// syllabusRepo SyllabusRepository 的 GORM 实现
type syllabusRepo struct {
	db *gorm.DB
}

// NewSyllabusRepo 创建 SyllabusRepository 实例
func NewSyllabusRepo(db *gorm.DB) SyllabusRepository {
	return &syllabusRepo{db: db}
}

func (r *syllabusRepo) CreateModule(ctx context.Context, m *model.CourseModule) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *syllabusRepo) GetModule(ctx context.Context, id string) (*model.CourseModule, error) {
	var m model.CourseModule
	if err := r.db.WithContext(ctx).Where("module_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *syllabusRepo) UpdateModule(ctx context.Context, m *model.CourseModule) error {
	return r.db.WithContext(ctx).
		Model(m).
		Where("module_id = ?", m.ModuleID).
		Updates(map[string]interface{}{
			"title":    m.Title,
			"position": m.Position,
		}).Error
}

func (r *syllabusRepo) DeleteModule(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("module_id = ?", id).
		Delete(&model.CourseModule{}).Error
}

func (r *syllabusRepo) CreateSubModule(ctx context.Context, sm *model.SubModule) error {
	return r.db.WithContext(ctx).Create(sm).Error
}

func (r *syllabusRepo) GetSubModule(ctx context.Context, id string) (*model.SubModule, error) {
	var sm model.SubModule
	if err := r.db.WithContext(ctx).Where("sub_module_id = ?", id).First(&sm).Error; err != nil {
		return nil, err
	}
	return &sm, nil
}

func (r *syllabusRepo) UpdateSubModule(ctx context.Context, sm *model.SubModule) error {
	return r.db.WithContext(ctx).
		Model(sm).
		Where("sub_module_id = ?", sm.SubModuleID).
		Updates(map[string]interface{}{
			"title":    sm.Title,
			"position": sm.Position,
		}).Error
}

func (r *syllabusRepo) DeleteSubModule(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("sub_module_id = ?", id).
		Delete(&model.SubModule{}).Error
}

func (r *syllabusRepo) CreateTopic(ctx context.Context, t *model.Topic) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *syllabusRepo) GetTopic(ctx context.Context, id string) (*model.Topic, error) {
	var t model.Topic
	if err := r.db.WithContext(ctx).Where("topic_id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *syllabusRepo) UpdateTopic(ctx context.Context, t *model.Topic) error {
	return r.db.WithContext(ctx).
		Model(t).
		Where("topic_id = ?", t.TopicID).
		Updates(map[string]interface{}{
			"title":    t.Title,
			"position": t.Position,
		}).Error
}

func (r *syllabusRepo) DeleteTopic(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("topic_id = ?", id).
		Delete(&model.Topic{}).Error
}

func (r *syllabusRepo) CreateSubTopic(ctx context.Context, st *model.SubTopic) error {
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *syllabusRepo) GetSubTopic(ctx context.Context, id string) (*model.SubTopic, error) {
	var st model.SubTopic
	if err := r.db.WithContext(ctx).Where("sub_topic_id = ?", id).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *syllabusRepo) UpdateSubTopic(ctx context.Context, st *model.SubTopic) error {
	return r.db.WithContext(ctx).
		Model(st).
		Where("sub_topic_id = ?", st.SubTopicID).
		Updates(map[string]interface{}{
			"title":    st.Title,
			"duration": st.Duration,
			"position": st.Position,
		}).Error
}

func (r *syllabusRepo) DeleteSubTopic(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("sub_topic_id = ?", id).
		Delete(&model.SubTopic{}).Error
}

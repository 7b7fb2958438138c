package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	pkgerrors "github.com/RoobanKR/LMS-Server-sub001/pkg/errors"
)

// CalendarRepository 课程日历数据访问接口
type CalendarRepository interface {
	// CreateWithItems 在事务中创建日历并批量写入排课项
	CreateWithItems(ctx context.Context, cal *model.CourseCalendar, items []model.CalendarItem) error
	GetByID(ctx context.Context, id string) (*model.CourseCalendar, error)
	// GetActiveByCourse 获取课程当前生效的日历（status = active）
	GetActiveByCourse(ctx context.Context, courseID string) (*model.CourseCalendar, error)
	// ReplaceWithItems 在事务中按乐观锁更新日历配置与摘要，并全量替换排课项：
	// 先删除旧数据，再批量插入新结果
	ReplaceWithItems(ctx context.Context, cal *model.CourseCalendar, items []model.CalendarItem) error
	// Archive 将日历标记为 archived（重新生成前调用）
	Archive(ctx context.Context, id string, updatedBy string) error
}

// CalendarItemRepository 排课项数据访问接口
type CalendarItemRepository interface {
	GetByID(ctx context.Context, id string) (*model.CalendarItem, error)
	// ListByCalendar 按生成顺序返回日历全部排课项
	ListByCalendar(ctx context.Context, calendarID string) ([]model.CalendarItem, error)
	ListByDateRange(ctx context.Context, calendarID string, from, to time.Time, offset, limit int) ([]model.CalendarItem, int64, error)
	UpdateStatus(ctx context.Context, item *model.CalendarItem) error
}

// calendarRepo CalendarRepository 的 GORM 实现
type calendarRepo struct {
	db *gorm.DB
}

// NewCalendarRepo 创建 CalendarRepository 实例
func NewCalendarRepo(db *gorm.DB) CalendarRepository {
	return &calendarRepo{db: db}
}

func (r *calendarRepo) CreateWithItems(ctx context.Context, cal *model.CourseCalendar, items []model.CalendarItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cal).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].CalendarID = cal.CalendarID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 200).Error
	})
}

func (r *calendarRepo) GetByID(ctx context.Context, id string) (*model.CourseCalendar, error) {
	var cal model.CourseCalendar
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("calendar_id = ?", id).
		First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *calendarRepo) GetActiveByCourse(ctx context.Context, courseID string) (*model.CourseCalendar, error) {
	var cal model.CourseCalendar
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND status = ?", courseID, "active").
		Order("created_at DESC").
		First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *calendarRepo) ReplaceWithItems(ctx context.Context, cal *model.CourseCalendar, items []model.CalendarItem) error {
	oldVersion := cal.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(cal).
			Where("calendar_id = ? AND version = ?", cal.CalendarID, oldVersion).
			Updates(map[string]interface{}{
				"hierarchy_mode":        cal.HierarchyMode,
				"start_date":            cal.StartDate,
				"daily_hours":           cal.DailyHours,
				"lunch_start":           cal.LunchStart,
				"lunch_end":             cal.LunchEnd,
				"short_breaks":          cal.ShortBreaks,
				"weekends":              cal.Weekends,
				"holidays":              cal.Holidays,
				"working_hours_per_day": cal.WorkingHoursPerDay,
				"total_duration":        cal.TotalDuration,
				"estimated_days":        cal.EstimatedDays,
				"actual_days":           cal.ActualDays,
				"module_count":          cal.ModuleCount,
				"first_date":            cal.FirstDate,
				"last_date":             cal.LastDate,
				"status":                cal.Status,
				"updated_by":            cal.UpdatedBy,
				"version":               oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		if err := tx.Where("calendar_id = ?", cal.CalendarID).
			Delete(&model.CalendarItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].CalendarID = cal.CalendarID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 200).Error
	})
	if err != nil {
		return err
	}
	cal.Version = oldVersion + 1
	return nil
}

func (r *calendarRepo) Archive(ctx context.Context, id string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.CourseCalendar{}).
		Where("calendar_id = ?", id).
		Updates(map[string]interface{}{
			"status":     "archived",
			"updated_by": updatedBy,
			"version":    gorm.Expr("version + 1"),
		}).Error
}

// calendarItemRepo CalendarItemRepository 的 GORM 实现
type calendarItemRepo struct {
	db *gorm.DB
}

// NewCalendarItemRepo 创建 CalendarItemRepository 实例
func NewCalendarItemRepo(db *gorm.DB) CalendarItemRepository {
	return &calendarItemRepo{db: db}
}

func (r *calendarItemRepo) GetByID(ctx context.Context, id string) (*model.CalendarItem, error) {
	var item model.CalendarItem
	err := r.db.WithContext(ctx).
		Where("item_id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *calendarItemRepo) ListByCalendar(ctx context.Context, calendarID string) ([]model.CalendarItem, error) {
	var items []model.CalendarItem
	err := r.db.WithContext(ctx).
		Where("calendar_id = ?", calendarID).
		Order("sequence ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *calendarItemRepo) ListByDateRange(ctx context.Context, calendarID string, from, to time.Time, offset, limit int) ([]model.CalendarItem, int64, error) {
	var items []model.CalendarItem
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CalendarItem{}).
		Where("calendar_id = ?", calendarID)
	if !from.IsZero() {
		db = db.Where("item_date >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("item_date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("item_date ASC, sequence ASC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *calendarItemRepo) UpdateStatus(ctx context.Context, item *model.CalendarItem) error {
	oldVersion := item.Version
	result := r.db.WithContext(ctx).
		Model(item).
		Where("item_id = ? AND version = ?", item.ItemID, oldVersion).
		Updates(map[string]interface{}{
			"status":  item.Status,
			"version": oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	item.Version = oldVersion + 1
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	"github.com/RoobanKR/LMS-Server-sub001/internal/repository"
)

// 排课模块错误定义
var (
	ErrCalendarNotFound      = errors.New("课程日历不存在")
	ErrCalendarItemNotFound  = errors.New("排课项不存在")
	ErrNoActiveCalendar      = errors.New("课程暂无生效的日历")
	ErrCalendarArchived      = errors.New("日历已归档，不可操作")
	ErrInvalidBreakInterval  = errors.New("休息时间区间无效")
	ErrNoWorkingHours        = errors.New("每日可排学时必须大于零")
	ErrNoWorkingDays         = errors.New("配置中没有可排课的工作日")
	ErrInvalidCalendarConfig = errors.New("排课配置无效")
)

// ScheduleService 排课服务接口
type ScheduleService interface {
	// Generate 为课程生成日历；已有生效日历时先归档再生成
	Generate(ctx context.Context, courseID string, req *dto.CalendarConfigRequest, operatorID string) (*dto.CalendarResponse, error)
	// Regenerate 按新配置重建指定日历：清空旧排课项后重新分配
	Regenerate(ctx context.Context, calendarID string, req *dto.CalendarConfigRequest, operatorID string) (*dto.CalendarResponse, error)
	GetByCourse(ctx context.Context, courseID string) (*dto.CalendarResponse, error)
	GetCalendarView(ctx context.Context, calendarID string) (map[string][]dto.CalendarItemResponse, error)
	GetTableView(ctx context.Context, calendarID string) ([]dto.TableRowResponse, error)
	ListItems(ctx context.Context, calendarID string, req *dto.CalendarItemListRequest) ([]dto.CalendarItemResponse, int64, error)
	UpdateItemStatus(ctx context.Context, itemID string, status string) (*dto.CalendarItemResponse, error)
	GetStats(ctx context.Context, calendarID string) (*dto.CalendarStatsResponse, error)
}

// scheduleService ScheduleService 实现
type scheduleService struct {
	repo        *repository.Repository
	maxScanDays int
	logger      *zap.Logger
}

// NewScheduleService 创建排课服务实例
func NewScheduleService(repo *repository.Repository, maxScanDays int, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:        repo,
		maxScanDays: maxScanDays,
		logger:      logger,
	}
}

// ════════════════════════════════════════════════════════════════
// 生成与重建
// ════════════════════════════════════════════════════════════════

func (s *scheduleService) Generate(ctx context.Context, courseID string, req *dto.CalendarConfigRequest, operatorID string) (*dto.CalendarResponse, error) {
	course, err := s.repo.Course.GetTree(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("加载课程大纲树失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	// 旧的生效日历先归档，保留历史排课记录
	if prev, err := s.repo.Calendar.GetActiveByCourse(ctx, courseID); err == nil {
		if err := s.repo.Calendar.Archive(ctx, prev.CalendarID, operatorID); err != nil {
			s.logger.Error("归档旧日历失败", zap.String("calendar_id", prev.CalendarID), zap.Error(err))
			return nil, err
		}
		s.logger.Info("旧日历已归档",
			zap.String("course_id", courseID),
			zap.String("calendar_id", prev.CalendarID))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cal, err := calendarFromRequest(req)
	if err != nil {
		return nil, err
	}
	cal.CourseID = courseID
	cal.Status = "active"
	cal.CreatedBy = &operatorID

	items, summary, err := s.runEngine(cal, course.Modules)
	if err != nil {
		return nil, err
	}
	applySummary(cal, summary)

	// 日历与排课项同事务落库，任一步失败则整体回滚
	if err := s.repo.Calendar.CreateWithItems(ctx, cal, items); err != nil {
		s.logger.Error("保存课程日历失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程日历生成成功",
		zap.String("course_id", courseID),
		zap.String("calendar_id", cal.CalendarID),
		zap.Int("item_count", len(items)),
		zap.Float64("total_duration", summary.TotalDuration))

	cal.Course = course
	return buildCalendarResponse(cal, items), nil
}

func (s *scheduleService) Regenerate(ctx context.Context, calendarID string, req *dto.CalendarConfigRequest, operatorID string) (*dto.CalendarResponse, error) {
	cal, err := s.repo.Calendar.GetByID(ctx, calendarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, err
	}
	if cal.Status != "active" {
		return nil, ErrCalendarArchived
	}

	course, err := s.repo.Course.GetTree(ctx, cal.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	updated, err := calendarFromRequest(req)
	if err != nil {
		return nil, err
	}
	cal.HierarchyMode = updated.HierarchyMode
	cal.StartDate = updated.StartDate
	cal.DailyHours = updated.DailyHours
	cal.LunchStart = updated.LunchStart
	cal.LunchEnd = updated.LunchEnd
	cal.ShortBreaks = updated.ShortBreaks
	cal.Weekends = updated.Weekends
	cal.Holidays = updated.Holidays
	cal.UpdatedBy = &operatorID

	items, summary, err := s.runEngine(cal, course.Modules)
	if err != nil {
		return nil, err
	}
	applySummary(cal, summary)

	// 配置更新、旧项清空与新项写入在同一事务内完成，失败时保留原排课结果
	if err := s.repo.Calendar.ReplaceWithItems(ctx, cal, items); err != nil {
		s.logger.Error("重建课程日历失败", zap.String("calendar_id", calendarID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程日历重建成功",
		zap.String("calendar_id", calendarID),
		zap.Int("item_count", len(items)))

	cal.Course = course
	return buildCalendarResponse(cal, items), nil
}

// runEngine 运行排课引擎：展平 → 分配 → 物化 → 汇总
func (s *scheduleService) runEngine(cal *model.CourseCalendar, modules []model.CourseModule) ([]model.CalendarItem, calendarSummary, error) {
	cfg, err := buildEngineConfig(cal, s.maxScanDays)
	if err != nil {
		return nil, calendarSummary{}, err
	}

	units := flattenCourse(modules)
	allocs, err := allocateWorkUnits(units, cfg)
	if err != nil {
		return nil, calendarSummary{}, err
	}

	items := buildCalendarItems(cal.CalendarID, allocs)
	return items, summarize(items, cfg), nil
}

// ════════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════════

func (s *scheduleService) GetByCourse(ctx context.Context, courseID string) (*dto.CalendarResponse, error) {
	cal, err := s.repo.Calendar.GetActiveByCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveCalendar
		}
		return nil, err
	}

	items, err := s.repo.CalendarItem.ListByCalendar(ctx, cal.CalendarID)
	if err != nil {
		return nil, err
	}
	return buildCalendarResponse(cal, items), nil
}

func (s *scheduleService) GetCalendarView(ctx context.Context, calendarID string) (map[string][]dto.CalendarItemResponse, error) {
	items, err := s.loadCalendarItems(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	view := make(map[string][]dto.CalendarItemResponse)
	for key, dayItems := range buildCalendarView(items) {
		resp := make([]dto.CalendarItemResponse, 0, len(dayItems))
		for _, it := range dayItems {
			resp = append(resp, toCalendarItemResponse(&it))
		}
		view[key] = resp
	}
	return view, nil
}

func (s *scheduleService) GetTableView(ctx context.Context, calendarID string) ([]dto.TableRowResponse, error) {
	items, err := s.loadCalendarItems(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	rows := buildTableView(items)
	resp := make([]dto.TableRowResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.TableRowResponse{
			CalendarItemResponse: toCalendarItemResponse(&row.Item),
			ShowModule:           row.ShowModule,
			ShowSubModule:        row.ShowSubModule,
			ShowTopic:            row.ShowTopic,
		})
	}
	return resp, nil
}

func (s *scheduleService) ListItems(ctx context.Context, calendarID string, req *dto.CalendarItemListRequest) ([]dto.CalendarItemResponse, int64, error) {
	if _, err := s.repo.Calendar.GetByID(ctx, calendarID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCalendarNotFound
		}
		return nil, 0, err
	}

	var from, to time.Time
	if req.From != "" {
		from, _ = time.Parse("2006-01-02", req.From)
	}
	if req.To != "" {
		to, _ = time.Parse("2006-01-02", req.To)
	}

	items, total, err := s.repo.CalendarItem.ListByDateRange(ctx, calendarID, from, to, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	resp := make([]dto.CalendarItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, toCalendarItemResponse(&it))
	}
	return resp, total, nil
}

func (s *scheduleService) UpdateItemStatus(ctx context.Context, itemID string, status string) (*dto.CalendarItemResponse, error) {
	item, err := s.repo.CalendarItem.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarItemNotFound
		}
		return nil, err
	}

	item.Status = status
	if err := s.repo.CalendarItem.UpdateStatus(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("排课项状态更新",
		zap.String("item_id", itemID),
		zap.String("status", status))

	resp := toCalendarItemResponse(item)
	return &resp, nil
}

func (s *scheduleService) GetStats(ctx context.Context, calendarID string) (*dto.CalendarStatsResponse, error) {
	items, err := s.loadCalendarItems(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	stats := &dto.CalendarStatsResponse{
		ByStatus: make(map[string]dto.CalendarStatRow),
	}
	var completedHours float64
	for _, it := range items {
		stats.TotalItems++
		stats.TotalHours += it.Hours
		row := stats.ByStatus[it.Status]
		row.Count++
		row.Hours += it.Hours
		stats.ByStatus[it.Status] = row
		if it.Status == model.ItemStatusCompleted {
			completedHours += it.Hours
		}
	}
	if stats.TotalHours > 0 {
		stats.ProgressPercent = completedHours / stats.TotalHours * 100
	}
	return stats, nil
}

func (s *scheduleService) loadCalendarItems(ctx context.Context, calendarID string) ([]model.CalendarItem, error) {
	if _, err := s.repo.Calendar.GetByID(ctx, calendarID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, err
	}
	return s.repo.CalendarItem.ListByCalendar(ctx, calendarID)
}

// ════════════════════════════════════════════════════════════════
// 辅助函数
// ════════════════════════════════════════════════════════════════

// calendarFromRequest 请求 → 日历配置字段（不含归属与汇总）
func calendarFromRequest(req *dto.CalendarConfigRequest) (*model.CourseCalendar, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidCalendarConfig
	}

	breaks := make(model.BreakList, 0, len(req.ShortBreaks))
	for _, b := range req.ShortBreaks {
		breaks = append(breaks, model.BreakInterval{Start: b.Start, End: b.End})
	}

	weekends := make(model.IntArray, 0, len(req.Weekends))
	weekends = append(weekends, req.Weekends...)

	holidays := make(model.DateList, 0, len(req.Holidays))
	holidays = append(holidays, req.Holidays...)

	return &model.CourseCalendar{
		HierarchyMode: req.HierarchyMode,
		StartDate:     startDate,
		DailyHours:    req.DailyHours,
		LunchStart:    req.LunchBreak.Start,
		LunchEnd:      req.LunchBreak.End,
		ShortBreaks:   breaks,
		Weekends:      weekends,
		Holidays:      holidays,
	}, nil
}

// applySummary 将汇总结果写回日历记录
func applySummary(cal *model.CourseCalendar, s calendarSummary) {
	cal.WorkingHoursPerDay = s.WorkingHoursPerDay
	cal.TotalDuration = s.TotalDuration
	cal.EstimatedDays = s.EstimatedDays
	cal.ActualDays = s.ActualDays
	cal.ModuleCount = s.ModuleCount
	cal.FirstDate = s.FirstDate
	cal.LastDate = s.LastDate
}

// buildCalendarResponse 日历记录 + 排课项 → 完整响应
func buildCalendarResponse(cal *model.CourseCalendar, items []model.CalendarItem) *dto.CalendarResponse {
	resp := &dto.CalendarResponse{
		ID:            cal.CalendarID,
		CourseID:      cal.CourseID,
		HierarchyMode: cal.HierarchyMode,
		StartDate:     cal.StartDate.Format("2006-01-02"),
		DailyHours:    cal.DailyHours,
		LunchBreak:    dto.BreakIntervalRequest{Start: cal.LunchStart, End: cal.LunchEnd},
		Weekends:      cal.Weekends,
		Holidays:      cal.Holidays,
		Status:        cal.Status,
		Summary: dto.CalendarSummary{
			TotalDuration:      cal.TotalDuration,
			WorkingHoursPerDay: cal.WorkingHoursPerDay,
			EstimatedDays:      cal.EstimatedDays,
			ActualDays:         cal.ActualDays,
			ModuleCount:        cal.ModuleCount,
			StartDate:          cal.FirstDate.Format("2006-01-02"),
			EndDate:            cal.LastDate.Format("2006-01-02"),
		},
		CreatedAt: cal.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cal.UpdatedAt.Format(time.RFC3339),
	}

	for _, b := range cal.ShortBreaks {
		resp.ShortBreaks = append(resp.ShortBreaks, dto.BreakIntervalRequest{Start: b.Start, End: b.End})
	}
	if cal.Course != nil {
		resp.Course = &dto.CourseBrief{
			ID:    cal.Course.CourseID,
			Title: cal.Course.Title,
			Code:  cal.Course.Code,
		}
	}
	for _, it := range items {
		resp.Items = append(resp.Items, toCalendarItemResponse(&it))
	}
	return resp
}

// toCalendarItemResponse 排课项模型 → 响应
func toCalendarItemResponse(it *model.CalendarItem) dto.CalendarItemResponse {
	return dto.CalendarItemResponse{
		ID:             it.ItemID,
		CalendarID:     it.CalendarID,
		Date:           it.ItemDate.Format("2006-01-02"),
		ModuleID:       it.ModuleID,
		ModuleTitle:    it.ModuleTitle,
		ModuleColor:    it.ModuleColor,
		SubModuleID:    it.SubModuleID,
		SubModuleTitle: it.SubModuleTitle,
		TopicID:        it.TopicID,
		TopicTitle:     it.TopicTitle,
		SubTopicID:     it.SubTopicID,
		SubTopicTitle:  it.SubTopicTitle,
		Hours:          it.Hours,
		Type:           it.ItemType,
		Status:         it.Status,
	}
}

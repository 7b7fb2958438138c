package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
)

func newTestScheduleService() (ScheduleService, *mockCourseRepo, *mockCalendarRepo, *mockCalendarItemRepo) {
	courseRepo := newMockCourseRepo()
	itemRepo := newMockCalendarItemRepo()
	calRepo := newMockCalendarRepo(itemRepo)
	svc := NewScheduleService(newTestRepository(courseRepo, calRepo, itemRepo), 3650, zap.NewNop())
	return svc, courseRepo, calRepo, itemRepo
}

func seedCourse(courseRepo *mockCourseRepo, modules []model.CourseModule) *model.Course {
	course := &model.Course{
		CourseID: "course-1",
		Title:    "Go 后端实战",
		Modules:  modules,
	}
	courseRepo.courses[course.CourseID] = course
	return course
}

func defaultConfigRequest(startDate string) *dto.CalendarConfigRequest {
	return &dto.CalendarConfigRequest{
		HierarchyMode: "subtopic",
		StartDate:     startDate,
		DailyHours:    8,
		LunchBreak:    dto.BreakIntervalRequest{Start: "13:00", End: "14:00"},
		Weekends:      []int{0, 6},
	}
}

func TestGenerateCalendar(t *testing.T) {
	svc, courseRepo, _, itemRepo := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(10))

	resp, err := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if resp.Status != "active" {
		t.Errorf("expected active status, got %s", resp.Status)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Summary.WorkingHoursPerDay != 7 {
		t.Errorf("working hours per day: expected 7, got %v", resp.Summary.WorkingHoursPerDay)
	}
	if math.Abs(resp.Summary.TotalDuration-10) > hoursEpsilon {
		t.Errorf("total duration: expected 10, got %v", resp.Summary.TotalDuration)
	}
	if resp.Summary.EstimatedDays != 2 {
		t.Errorf("estimated days: expected 2, got %d", resp.Summary.EstimatedDays)
	}
	if resp.Summary.StartDate != "2024-01-01" || resp.Summary.EndDate != "2024-01-02" {
		t.Errorf("summary dates: got %s / %s", resp.Summary.StartDate, resp.Summary.EndDate)
	}

	stored, _ := itemRepo.ListByCalendar(context.Background(), resp.ID)
	if len(stored) != 2 {
		t.Errorf("expected 2 persisted items, got %d", len(stored))
	}
}

func TestGenerateArchivesPreviousCalendar(t *testing.T) {
	svc, courseRepo, calRepo, _ := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(5))

	first, err := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-02-05"), "user-1")
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	prev, _ := calRepo.GetByID(context.Background(), first.ID)
	if prev.Status != "archived" {
		t.Errorf("previous calendar should be archived, got %s", prev.Status)
	}
	active, err := calRepo.GetActiveByCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("GetActiveByCourse: %v", err)
	}
	if active.CalendarID != second.ID {
		t.Error("second calendar should be the active one")
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	svc, courseRepo, _, _ := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(5))

	req := defaultConfigRequest("2024-01-01")
	req.LunchBreak = dto.BreakIntervalRequest{Start: "14:00", End: "13:00"}
	if _, err := svc.Generate(context.Background(), "course-1", req, "user-1"); !errors.Is(err, ErrInvalidBreakInterval) {
		t.Errorf("expected ErrInvalidBreakInterval, got %v", err)
	}

	req = defaultConfigRequest("2024-01-01")
	req.DailyHours = 0.5
	if _, err := svc.Generate(context.Background(), "course-1", req, "user-1"); !errors.Is(err, ErrNoWorkingHours) {
		t.Errorf("expected ErrNoWorkingHours, got %v", err)
	}
}

func TestGenerateCourseNotFound(t *testing.T) {
	svc, _, _, _ := newTestScheduleService()
	if _, err := svc.Generate(context.Background(), "missing", defaultConfigRequest("2024-01-01"), "u"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestRegenerateReplacesItems(t *testing.T) {
	svc, courseRepo, _, itemRepo := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(10))

	resp, err := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// 新配置加入节假日，第二块应顺延
	req := defaultConfigRequest("2024-01-01")
	req.Holidays = []string{"2024-01-02"}
	updated, err := svc.Regenerate(context.Background(), resp.ID, req, "user-1")
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	if len(updated.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(updated.Items))
	}
	if updated.Items[1].Date != "2024-01-03" {
		t.Errorf("second item should skip holiday onto 2024-01-03, got %s", updated.Items[1].Date)
	}

	stored, _ := itemRepo.ListByCalendar(context.Background(), resp.ID)
	if len(stored) != 2 {
		t.Errorf("old items should be replaced, got %d stored", len(stored))
	}
}

func TestRegenerateWriteFailureKeepsExistingItems(t *testing.T) {
	svc, courseRepo, calRepo, itemRepo := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(10))

	resp, err := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	calRepo.writeErr = errors.New("连接中断")
	if _, err := svc.Regenerate(context.Background(), resp.ID, defaultConfigRequest("2024-02-01"), "user-1"); err == nil {
		t.Fatal("expected write error from Regenerate")
	}

	// 替换在事务中执行：写入失败后原排课项原样保留
	stored, _ := itemRepo.ListByCalendar(context.Background(), resp.ID)
	if len(stored) != 2 {
		t.Fatalf("existing items must survive a failed regenerate, got %d", len(stored))
	}
	if stored[0].ItemDate.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("first item should keep its original date, got %s", stored[0].ItemDate.Format("2006-01-02"))
	}
}

func TestRegenerateArchivedCalendarFails(t *testing.T) {
	svc, courseRepo, calRepo, _ := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(5))

	resp, _ := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")
	_ = calRepo.Archive(context.Background(), resp.ID, "user-1")

	if _, err := svc.Regenerate(context.Background(), resp.ID, defaultConfigRequest("2024-01-08"), "user-1"); !errors.Is(err, ErrCalendarArchived) {
		t.Errorf("expected ErrCalendarArchived, got %v", err)
	}
}

func TestGetByCourseReturnsActive(t *testing.T) {
	svc, courseRepo, _, _ := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(5))

	if _, err := svc.GetByCourse(context.Background(), "course-1"); !errors.Is(err, ErrNoActiveCalendar) {
		t.Errorf("expected ErrNoActiveCalendar before generation, got %v", err)
	}

	gen, _ := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")
	got, err := svc.GetByCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("GetByCourse: %v", err)
	}
	if got.ID != gen.ID {
		t.Error("GetByCourse should return the generated calendar")
	}
	if len(got.Items) != len(gen.Items) {
		t.Errorf("item count mismatch: %d vs %d", len(got.Items), len(gen.Items))
	}
}

func TestCalendarViewService(t *testing.T) {
	svc, courseRepo, _, _ := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(10))
	resp, _ := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")

	view, err := svc.GetCalendarView(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetCalendarView: %v", err)
	}
	if len(view) != 2 {
		t.Fatalf("expected 2 day groups, got %d", len(view))
	}
	if len(view["2024-01-01"]) != 1 || view["2024-01-01"][0].Hours != 7 {
		t.Error("2024-01-01 should hold a single 7h item")
	}
}

func TestTableViewService(t *testing.T) {
	svc, courseRepo, _, _ := newTestScheduleService()
	seedCourse(courseRepo, multiModuleCourse())
	resp, _ := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")

	rows, err := svc.GetTableView(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetTableView: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected rows")
	}
	if !rows[0].ShowModule || !rows[0].ShowSubModule || !rows[0].ShowTopic {
		t.Error("first row must show all labels")
	}
}

func TestListItemsDateFilter(t *testing.T) {
	svc, courseRepo, _, _ := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(21)) // 3 个工作日
	resp, _ := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")

	req := &dto.CalendarItemListRequest{From: "2024-01-02", To: "2024-01-02"}
	items, total, err := svc.ListItems(context.Background(), resp.ID, req)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected exactly 1 item on 2024-01-02, got total=%d len=%d", total, len(items))
	}
	if items[0].Date != "2024-01-02" {
		t.Errorf("expected date 2024-01-02, got %s", items[0].Date)
	}
}

func TestUpdateItemStatusAndStats(t *testing.T) {
	svc, courseRepo, _, _ := newTestScheduleService()
	seedCourse(courseRepo, singleLeafCourse(10))
	resp, _ := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")

	first := resp.Items[0]
	updated, err := svc.UpdateItemStatus(context.Background(), first.ID, model.ItemStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	if updated.Status != model.ItemStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}

	stats, err := svc.GetStats(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalItems != 2 {
		t.Errorf("total items: expected 2, got %d", stats.TotalItems)
	}
	if math.Abs(stats.TotalHours-10) > hoursEpsilon {
		t.Errorf("total hours: expected 10, got %v", stats.TotalHours)
	}
	if stats.ByStatus[model.ItemStatusCompleted].Count != 1 {
		t.Errorf("completed count: expected 1, got %d", stats.ByStatus[model.ItemStatusCompleted].Count)
	}
	// 已完成 7 / 总 10 学时
	if math.Abs(stats.ProgressPercent-70) > 0.01 {
		t.Errorf("progress: expected 70%%, got %v", stats.ProgressPercent)
	}
	if stats.ByStatus[model.ItemStatusScheduled].Count != 1 {
		t.Errorf("scheduled count: expected 1, got %d", stats.ByStatus[model.ItemStatusScheduled].Count)
	}
}

func TestUpdateItemStatusNotFound(t *testing.T) {
	svc, _, _, _ := newTestScheduleService()
	if _, err := svc.UpdateItemStatus(context.Background(), "missing", model.ItemStatusCompleted); !errors.Is(err, ErrCalendarItemNotFound) {
		t.Errorf("expected ErrCalendarItemNotFound, got %v", err)
	}
}

func TestGenerateEmptyCourse(t *testing.T) {
	svc, courseRepo, _, _ := newTestScheduleService()
	seedCourse(courseRepo, nil)

	resp, err := svc.Generate(context.Background(), "course-1", defaultConfigRequest("2024-01-01"), "user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected no items, got %d", len(resp.Items))
	}
	if resp.Summary.TotalDuration != 0 || resp.Summary.EstimatedDays != 0 {
		t.Errorf("empty summary expected, got %+v", resp.Summary)
	}
	if resp.Summary.StartDate != "2024-01-01" {
		t.Errorf("summary start should fall back to config start, got %s", resp.Summary.StartDate)
	}
}

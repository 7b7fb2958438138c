package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	"github.com/RoobanKR/LMS-Server-sub001/internal/repository"
	pkgerrors "github.com/RoobanKR/LMS-Server-sub001/pkg/errors"
)

// ── 排课服务测试用内存 Mock ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = "course-" + course.Title
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockCourseRepo) GetTree(ctx context.Context, id string) (*model.Course, error) {
	return m.GetByID(ctx, id)
}

func (m *mockCourseRepo) List(_ context.Context, _, _ string, _, _ int) ([]model.Course, int64, error) {
	var out []model.Course
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.courses, id)
	return nil
}

type mockCalendarRepo struct {
	calendars map[string]*model.CourseCalendar
	items     *mockCalendarItemRepo
	nextID    int
	writeErr  error // 注入写入失败
}

func newMockCalendarRepo(items *mockCalendarItemRepo) *mockCalendarRepo {
	return &mockCalendarRepo{
		calendars: make(map[string]*model.CourseCalendar),
		items:     items,
	}
}

func (m *mockCalendarRepo) CreateWithItems(_ context.Context, cal *model.CourseCalendar, items []model.CalendarItem) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if cal.CalendarID == "" {
		m.nextID++
		cal.CalendarID = "cal-" + time.Now().Format("150405") + "-" + string(rune('a'+m.nextID))
	}
	if cal.Version == 0 {
		cal.Version = 1
	}
	m.calendars[cal.CalendarID] = cal
	for i := range items {
		items[i].CalendarID = cal.CalendarID
	}
	m.items.insert(items)
	return nil
}

func (m *mockCalendarRepo) GetByID(_ context.Context, id string) (*model.CourseCalendar, error) {
	cal, ok := m.calendars[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cal, nil
}

func (m *mockCalendarRepo) GetActiveByCourse(_ context.Context, courseID string) (*model.CourseCalendar, error) {
	for _, cal := range m.calendars {
		if cal.CourseID == courseID && cal.Status == "active" {
			return cal, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarRepo) ReplaceWithItems(_ context.Context, cal *model.CourseCalendar, items []model.CalendarItem) error {
	// 事务语义：失败时旧排课项保持原样
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.calendars[cal.CalendarID]; !ok {
		return pkgerrors.ErrOptimisticLock
	}
	cal.Version++
	m.calendars[cal.CalendarID] = cal
	delete(m.items.items, cal.CalendarID)
	for i := range items {
		items[i].CalendarID = cal.CalendarID
	}
	m.items.insert(items)
	return nil
}

func (m *mockCalendarRepo) Archive(_ context.Context, id string, _ string) error {
	cal, ok := m.calendars[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cal.Status = "archived"
	return nil
}

type mockCalendarItemRepo struct {
	items map[string][]model.CalendarItem // calendarID → items
}

func newMockCalendarItemRepo() *mockCalendarItemRepo {
	return &mockCalendarItemRepo{items: make(map[string][]model.CalendarItem)}
}

// insert 写入排课项并分配 ID（模拟数据库 RETURNING 回填）
func (m *mockCalendarItemRepo) insert(items []model.CalendarItem) {
	for i := range items {
		if items[i].ItemID == "" {
			items[i].ItemID = items[i].CalendarID + "-item-" + items[i].SubTopicID + "-" + items[i].ItemDate.Format("20060102")
		}
		m.items[items[i].CalendarID] = append(m.items[items[i].CalendarID], items[i])
	}
}

func (m *mockCalendarItemRepo) GetByID(_ context.Context, id string) (*model.CalendarItem, error) {
	for _, list := range m.items {
		for i := range list {
			if list[i].ItemID == id {
				return &list[i], nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarItemRepo) ListByCalendar(_ context.Context, calendarID string) ([]model.CalendarItem, error) {
	return m.items[calendarID], nil
}

func (m *mockCalendarItemRepo) ListByDateRange(_ context.Context, calendarID string, from, to time.Time, offset, limit int) ([]model.CalendarItem, int64, error) {
	var filtered []model.CalendarItem
	for _, it := range m.items[calendarID] {
		if !from.IsZero() && it.ItemDate.Before(from) {
			continue
		}
		if !to.IsZero() && it.ItemDate.After(to) {
			continue
		}
		filtered = append(filtered, it)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockCalendarItemRepo) UpdateStatus(_ context.Context, item *model.CalendarItem) error {
	list := m.items[item.CalendarID]
	for i := range list {
		if list[i].ItemID == item.ItemID {
			list[i].Status = item.Status
			list[i].Version++
			item.Version = list[i].Version
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type mockInstitutionRepo struct {
	insts map[string]*model.Institution
	users map[string]int64 // institutionID → 用户数
}

func newMockInstitutionRepo() *mockInstitutionRepo {
	return &mockInstitutionRepo{
		insts: make(map[string]*model.Institution),
		users: make(map[string]int64),
	}
}

func (m *mockInstitutionRepo) Create(_ context.Context, inst *model.Institution) error {
	if inst.InstitutionID == "" {
		inst.InstitutionID = "inst-" + inst.Code
	}
	m.insts[inst.InstitutionID] = inst
	return nil
}

func (m *mockInstitutionRepo) GetByID(_ context.Context, id string) (*model.Institution, error) {
	inst, ok := m.insts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inst, nil
}

func (m *mockInstitutionRepo) GetByCode(_ context.Context, code string) (*model.Institution, error) {
	for _, inst := range m.insts {
		if inst.Code == code {
			return inst, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstitutionRepo) List(_ context.Context, includeInactive bool, _, _ int) ([]model.Institution, int64, error) {
	var out []model.Institution
	for _, inst := range m.insts {
		if !includeInactive && !inst.IsActive {
			continue
		}
		out = append(out, *inst)
	}
	return out, int64(len(out)), nil
}

func (m *mockInstitutionRepo) Update(_ context.Context, inst *model.Institution) error {
	inst.Version++
	m.insts[inst.InstitutionID] = inst
	return nil
}

func (m *mockInstitutionRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.insts, id)
	return nil
}

func (m *mockInstitutionRepo) CountUsers(_ context.Context, id string) (int64, error) {
	return m.users[id], nil
}

type mockSyllabusRepo struct {
	modules    map[string]*model.CourseModule
	subModules map[string]*model.SubModule
	topics     map[string]*model.Topic
	subTopics  map[string]*model.SubTopic
	nextID     int
}

func newMockSyllabusRepo() *mockSyllabusRepo {
	return &mockSyllabusRepo{
		modules:    make(map[string]*model.CourseModule),
		subModules: make(map[string]*model.SubModule),
		topics:     make(map[string]*model.Topic),
		subTopics:  make(map[string]*model.SubTopic),
	}
}

func (m *mockSyllabusRepo) id(prefix string) string {
	m.nextID++
	return prefix + "-" + string(rune('a'+m.nextID))
}

func (m *mockSyllabusRepo) CreateModule(_ context.Context, mod *model.CourseModule) error {
	if mod.ModuleID == "" {
		mod.ModuleID = m.id("m")
	}
	m.modules[mod.ModuleID] = mod
	return nil
}

func (m *mockSyllabusRepo) GetModule(_ context.Context, id string) (*model.CourseModule, error) {
	mod, ok := m.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return mod, nil
}

func (m *mockSyllabusRepo) UpdateModule(_ context.Context, mod *model.CourseModule) error {
	m.modules[mod.ModuleID] = mod
	return nil
}

func (m *mockSyllabusRepo) DeleteModule(_ context.Context, id string) error {
	delete(m.modules, id)
	return nil
}

func (m *mockSyllabusRepo) CreateSubModule(_ context.Context, sm *model.SubModule) error {
	if sm.SubModuleID == "" {
		sm.SubModuleID = m.id("sm")
	}
	m.subModules[sm.SubModuleID] = sm
	return nil
}

func (m *mockSyllabusRepo) GetSubModule(_ context.Context, id string) (*model.SubModule, error) {
	sm, ok := m.subModules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sm, nil
}

func (m *mockSyllabusRepo) UpdateSubModule(_ context.Context, sm *model.SubModule) error {
	m.subModules[sm.SubModuleID] = sm
	return nil
}

func (m *mockSyllabusRepo) DeleteSubModule(_ context.Context, id string) error {
	delete(m.subModules, id)
	return nil
}

func (m *mockSyllabusRepo) CreateTopic(_ context.Context, t *model.Topic) error {
	if t.TopicID == "" {
		t.TopicID = m.id("t")
	}
	m.topics[t.TopicID] = t
	return nil
}

func (m *mockSyllabusRepo) GetTopic(_ context.Context, id string) (*model.Topic, error) {
	t, ok := m.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (m *mockSyllabusRepo) UpdateTopic(_ context.Context, t *model.Topic) error {
	m.topics[t.TopicID] = t
	return nil
}

func (m *mockSyllabusRepo) DeleteTopic(_ context.Context, id string) error {
	delete(m.topics, id)
	return nil
}

func (m *mockSyllabusRepo) CreateSubTopic(_ context.Context, st *model.SubTopic) error {
	if st.SubTopicID == "" {
		st.SubTopicID = m.id("st")
	}
	m.subTopics[st.SubTopicID] = st
	return nil
}

func (m *mockSyllabusRepo) GetSubTopic(_ context.Context, id string) (*model.SubTopic, error) {
	st, ok := m.subTopics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return st, nil
}

func (m *mockSyllabusRepo) UpdateSubTopic(_ context.Context, st *model.SubTopic) error {
	m.subTopics[st.SubTopicID] = st
	return nil
}

func (m *mockSyllabusRepo) DeleteSubTopic(_ context.Context, id string) error {
	delete(m.subTopics, id)
	return nil
}

// newTestRepository 组装仅含排课相关 Mock 的聚合
func newTestRepository(course *mockCourseRepo, cal *mockCalendarRepo, items *mockCalendarItemRepo) *repository.Repository {
	return &repository.Repository{
		Course:       course,
		Calendar:     cal,
		CalendarItem: items,
	}
}

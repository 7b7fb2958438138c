package service

import (
	"fmt"
	"math"
	"time"

	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
)

// ════════════════════════════════════════════════════════════════
// 排课引擎 — 纯函数实现
// 大纲树展平 → 按日容量贪心分配 → 汇总统计 → 视图投影
// 不做任何 I/O；相同输入必定产生相同输出
// ════════════════════════════════════════════════════════════════

// 模块展示色板；按模块在列表中的位置取 index mod 8
var moduleColorPalette = [8]string{
	"#3b82f6", // 蓝
	"#10b981", // 绿
	"#f59e0b", // 橙
	"#ef4444", // 红
	"#8b5cf6", // 紫
	"#ec4899", // 粉
	"#14b8a6", // 青
	"#f97316", // 深橙
}

// directTopicLabel 主题直属模块时排课项的子模块标题占位
const directTopicLabel = "Direct Topic"

// hoursEpsilon 学时浮点比较容差
const hoursEpsilon = 1e-9

// ── 引擎输入 ──

// engineConfig 一次排课运行的配置快照
type engineConfig struct {
	StartDate          time.Time
	WorkingHoursPerDay float64
	Weekends           map[time.Weekday]bool
	Holidays           map[string]bool // "2006-01-02"
	MaxScanDays        int             // 连续扫描非工作日的上限
}

// topicParent 主题挂载位置：直属模块或归属某子模块
type topicParent struct {
	SubModuleID    *string
	SubModuleTitle string // 直属时为空，构造排课项时填充占位标题
}

// workUnit 可排课的最小单元：一个子主题及其完整祖先路径
type workUnit struct {
	ModuleID      string
	ModuleTitle   string
	ModuleColor   string
	Parent        topicParent
	TopicID       string
	TopicTitle    string
	SubTopicID    string
	SubTopicTitle string
	Duration      float64
}

// ── 休息时间计算 ──

// breakIntervalHours 计算单个 "HH:MM" 区间的小时数
// end 不晚于 start 视为配置错误
func breakIntervalHours(start, end string) (float64, error) {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return 0, fmt.Errorf("%w: 起始时间 %q", ErrInvalidBreakInterval, start)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return 0, fmt.Errorf("%w: 结束时间 %q", ErrInvalidBreakInterval, end)
	}
	minutes := e.Sub(s).Minutes()
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidBreakInterval, start, end)
	}
	return minutes / 60, nil
}

// totalBreakHours 午休 + 所有课间休息的总小时数
func totalBreakHours(lunchStart, lunchEnd string, shortBreaks model.BreakList) (float64, error) {
	total, err := breakIntervalHours(lunchStart, lunchEnd)
	if err != nil {
		return 0, err
	}
	for _, b := range shortBreaks {
		h, err := breakIntervalHours(b.Start, b.End)
		if err != nil {
			return 0, err
		}
		total += h
	}
	return total, nil
}

// ── 工作日判定 ──

// dateKey 日期归一化为 "2006-01-02"，忽略时刻与时区偏移
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// isWorkingDay 判断某天是否可排课：不在周末集合且不是节假日
func isWorkingDay(day time.Time, weekends map[time.Weekday]bool, holidays map[string]bool) bool {
	if weekends[day.Weekday()] {
		return false
	}
	if holidays[dateKey(day)] {
		return false
	}
	return true
}

// ── 配置构建与校验 ──

// buildEngineConfig 由日历记录构建引擎配置：
// 派生每日可排学时并做前置校验，校验失败时不进入分配阶段
func buildEngineConfig(cal *model.CourseCalendar, maxScanDays int) (*engineConfig, error) {
	breaks, err := totalBreakHours(cal.LunchStart, cal.LunchEnd, cal.ShortBreaks)
	if err != nil {
		return nil, err
	}

	whpd := cal.DailyHours - breaks
	if whpd <= 0 {
		return nil, fmt.Errorf("%w: 每日 %.2f 小时减去休息 %.2f 小时后不足",
			ErrNoWorkingHours, cal.DailyHours, breaks)
	}

	weekends := make(map[time.Weekday]bool, len(cal.Weekends))
	for _, w := range cal.Weekends {
		if w < 0 || w > 6 {
			return nil, fmt.Errorf("%w: 周末索引 %d 超出 0-6", ErrInvalidCalendarConfig, w)
		}
		weekends[time.Weekday(w)] = true
	}

	holidays := make(map[string]bool, len(cal.Holidays))
	for _, h := range cal.Holidays {
		d, err := time.Parse("2006-01-02", h)
		if err != nil {
			return nil, fmt.Errorf("%w: 节假日 %q 格式错误", ErrInvalidCalendarConfig, h)
		}
		holidays[dateKey(d)] = true
	}

	if maxScanDays <= 0 {
		maxScanDays = 3650
	}

	return &engineConfig{
		StartDate:          truncateToDay(cal.StartDate),
		WorkingHoursPerDay: whpd,
		Weekends:           weekends,
		Holidays:           holidays,
		MaxScanDays:        maxScanDays,
	}, nil
}

// truncateToDay 去掉时刻部分，仅保留日历日
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ── 大纲树展平 ──

// moduleColor 按模块位置取色；同色循环是刻意保留的展示策略
func moduleColor(index int) string {
	return moduleColorPalette[index%len(moduleColorPalette)]
}

// flattenCourse 将大纲树展平为有序工作单元序列。
// 顺序规则：模块按给定顺序；模块内先直属主题（及其子主题），
// 再子模块（及其主题、子主题），全部按 position 预排序后的给定顺序。
func flattenCourse(modules []model.CourseModule) []workUnit {
	var units []workUnit
	for i, mod := range modules {
		color := moduleColor(i)

		// 直属主题
		for _, topic := range mod.Topics {
			units = appendTopicUnits(units, &mod, color, topicParent{}, topic)
		}

		// 子模块主题
		for _, sm := range mod.SubModules {
			smID := sm.SubModuleID
			parent := topicParent{SubModuleID: &smID, SubModuleTitle: sm.Title}
			for _, topic := range sm.Topics {
				units = appendTopicUnits(units, &mod, color, parent, topic)
			}
		}
	}
	return units
}

func appendTopicUnits(units []workUnit, mod *model.CourseModule, color string, parent topicParent, topic model.Topic) []workUnit {
	for _, st := range topic.SubTopics {
		units = append(units, workUnit{
			ModuleID:      mod.ModuleID,
			ModuleTitle:   mod.Title,
			ModuleColor:   color,
			Parent:        parent,
			TopicID:       topic.TopicID,
			TopicTitle:    topic.Title,
			SubTopicID:    st.SubTopicID,
			SubTopicTitle: st.Title,
			Duration:      st.Duration,
		})
	}
	return units
}

// ── 按日容量分配 ──

// allocation 单次分配结果：某工作单元在某天分得的学时
type allocation struct {
	Date  time.Time
	Unit  workUnit
	Hours float64
}

// nextWorkingDay 从 day 起向前寻找最近的工作日（day 本身可命中）。
// 扫描超过 MaxScanDays 天仍未命中视为配置错误，避免排除全部星期导致死循环。
func nextWorkingDay(day time.Time, cfg *engineConfig) (time.Time, error) {
	start := day
	for i := 0; i < cfg.MaxScanDays; i++ {
		if isWorkingDay(day, cfg.Weekends, cfg.Holidays) {
			return day, nil
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("%w: 自 %s 起连续 %d 天均不可排课",
		ErrNoWorkingDays, dateKey(start), cfg.MaxScanDays)
}

// allocateWorkUnits 分配核心：对每个工作单元按 flatten 顺序消耗学时。
// 游标日期贯穿整次运行且只会前移；单元剩余学时归零时游标不前移，
// 下一个单元的首块仍落在同一天并获得全额日容量（保留原有边界行为）。
func allocateWorkUnits(units []workUnit, cfg *engineConfig) ([]allocation, error) {
	cursor := cfg.StartDate
	var allocs []allocation

	for _, unit := range units {
		remaining := unit.Duration
		for remaining > hoursEpsilon {
			day, err := nextWorkingDay(cursor, cfg)
			if err != nil {
				return nil, err
			}
			cursor = day

			chunk := math.Min(remaining, cfg.WorkingHoursPerDay)
			allocs = append(allocs, allocation{Date: cursor, Unit: unit, Hours: chunk})
			remaining -= chunk

			if remaining > hoursEpsilon {
				cursor = cursor.AddDate(0, 0, 1)
			}
		}
	}
	return allocs, nil
}

// ── 排课项构造 ──

// buildCalendarItems 将分配结果物化为排课项，Sequence 记录生成顺序
func buildCalendarItems(calendarID string, allocs []allocation) []model.CalendarItem {
	items := make([]model.CalendarItem, 0, len(allocs))
	for i, a := range allocs {
		smTitle := directTopicLabel
		if a.Unit.Parent.SubModuleID != nil {
			smTitle = a.Unit.Parent.SubModuleTitle
		}
		items = append(items, model.CalendarItem{
			CalendarID:     calendarID,
			ItemDate:       a.Date,
			ModuleID:       a.Unit.ModuleID,
			ModuleTitle:    a.Unit.ModuleTitle,
			ModuleColor:    a.Unit.ModuleColor,
			SubModuleID:    a.Unit.Parent.SubModuleID,
			SubModuleTitle: smTitle,
			TopicID:        a.Unit.TopicID,
			TopicTitle:     a.Unit.TopicTitle,
			SubTopicID:     a.Unit.SubTopicID,
			SubTopicTitle:  a.Unit.SubTopicTitle,
			Hours:          a.Hours,
			ItemType:       "learning",
			Status:         model.ItemStatusScheduled,
			Sequence:       i,
			Version:        1,
		})
	}
	return items
}

// ── 汇总统计 ──

// calendarSummary 一次排课运行的汇总结果
type calendarSummary struct {
	TotalDuration      float64
	WorkingHoursPerDay float64
	EstimatedDays      int
	ActualDays         int
	ModuleCount        int
	FirstDate          time.Time
	LastDate           time.Time
}

// summarize 对排课项做纯归约。
// ActualDays 统计排课项条数而非去重日期数，与历史口径保持一致；
// 空结果时首末日期回落到配置的起始日期。
func summarize(items []model.CalendarItem, cfg *engineConfig) calendarSummary {
	s := calendarSummary{
		WorkingHoursPerDay: cfg.WorkingHoursPerDay,
		FirstDate:          cfg.StartDate,
		LastDate:           cfg.StartDate,
	}
	if len(items) == 0 {
		return s
	}

	modules := make(map[string]bool)
	for _, it := range items {
		s.TotalDuration += it.Hours
		modules[it.ModuleID] = true
	}
	s.ModuleCount = len(modules)
	s.ActualDays = len(items)
	s.EstimatedDays = int(math.Ceil(s.TotalDuration / cfg.WorkingHoursPerDay))
	s.FirstDate = items[0].ItemDate
	s.LastDate = items[len(items)-1].ItemDate
	return s
}

// ── 视图投影 ──

// buildCalendarView 日历视图：按日期分组，组内保持原有相对顺序
func buildCalendarView(items []model.CalendarItem) map[string][]model.CalendarItem {
	view := make(map[string][]model.CalendarItem)
	for _, it := range items {
		key := dateKey(it.ItemDate)
		view[key] = append(view[key], it)
	}
	return view
}

// tableRow 表格视图行：排课项 + 相邻去重展示标记
type tableRow struct {
	Item          model.CalendarItem
	ShowModule    bool
	ShowSubModule bool
	ShowTopic     bool
}

// buildTableView 表格视图：严格按相邻比较计算 show 标记，不重排不分组。
// 首行三个标记恒为 true；其余行仅在对应标题与上一行不同时为 true。
func buildTableView(items []model.CalendarItem) []tableRow {
	rows := make([]tableRow, 0, len(items))
	for i, it := range items {
		row := tableRow{Item: it, ShowModule: true, ShowSubModule: true, ShowTopic: true}
		if i > 0 {
			prev := items[i-1]
			row.ShowModule = it.ModuleTitle != prev.ModuleTitle
			row.ShowSubModule = it.SubModuleTitle != prev.SubModuleTitle
			row.ShowTopic = it.TopicTitle != prev.TopicTitle
		}
		rows = append(rows, row)
	}
	return rows
}

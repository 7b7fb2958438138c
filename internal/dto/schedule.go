package dto

// ── 课程日历（排课）模块 DTO ──

// BreakIntervalRequest 挂钟时间区间，"HH:MM" 格式
type BreakIntervalRequest struct {
	Start string `json:"start" binding:"required,len=5"`
	End   string `json:"end"   binding:"required,len=5"`
}

// CalendarConfigRequest 排课配置（生成与重新生成共用）
type CalendarConfigRequest struct {
	HierarchyMode string                 `json:"hierarchy_mode" binding:"required,oneof=module submodule topic subtopic"`
	StartDate     string                 `json:"start_date"     binding:"required,datetime=2006-01-02"`
	DailyHours    float64                `json:"daily_hours"    binding:"required,gt=0,lte=24"`
	LunchBreak    BreakIntervalRequest   `json:"lunch_break"    binding:"required"`
	ShortBreaks   []BreakIntervalRequest `json:"short_breaks"   binding:"omitempty,dive"`
	Weekends      []int                  `json:"weekends"       binding:"omitempty,dive,min=0,max=6"`
	Holidays      []string               `json:"holidays"       binding:"omitempty,dive,datetime=2006-01-02"`
}

// UpdateItemStatusRequest 更新排课项状态请求
type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled in_progress completed cancelled"`
}

// CalendarItemListRequest 排课项列表查询参数（日期范围过滤）
type CalendarItemListRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// ── 响应 ──

// CalendarResponse 课程日历完整响应（配置 + 汇总 + 排课项）
type CalendarResponse struct {
	ID            string                 `json:"id"`
	CourseID      string                 `json:"course_id"`
	Course        *CourseBrief           `json:"course,omitempty"`
	HierarchyMode string                 `json:"hierarchy_mode"`
	StartDate     string                 `json:"start_date"`
	DailyHours    float64                `json:"daily_hours"`
	LunchBreak    BreakIntervalRequest   `json:"lunch_break"`
	ShortBreaks   []BreakIntervalRequest `json:"short_breaks,omitempty"`
	Weekends      []int                  `json:"weekends"`
	Holidays      []string               `json:"holidays,omitempty"`
	Status        string                 `json:"status"`
	Summary       CalendarSummary        `json:"summary"`
	Items         []CalendarItemResponse `json:"items,omitempty"`
	CreatedAt     string                 `json:"created_at"`
	UpdatedAt     string                 `json:"updated_at"`
}

// CalendarSummary 排课汇总统计
type CalendarSummary struct {
	TotalDuration      float64 `json:"total_duration"`
	WorkingHoursPerDay float64 `json:"working_hours_per_day"`
	EstimatedDays      int     `json:"estimated_days"`
	ActualDays         int     `json:"actual_days"`
	ModuleCount        int     `json:"module_count"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
}

// CalendarItemResponse 排课项响应
type CalendarItemResponse struct {
	ID             string  `json:"id"`
	CalendarID     string  `json:"calendar_id"`
	Date           string  `json:"date"` // "2006-01-02"
	ModuleID       string  `json:"module_id"`
	ModuleTitle    string  `json:"module_title"`
	ModuleColor    string  `json:"module_color"`
	SubModuleID    *string `json:"sub_module_id,omitempty"`
	SubModuleTitle string  `json:"sub_module_title"`
	TopicID        string  `json:"topic_id"`
	TopicTitle     string  `json:"topic_title"`
	SubTopicID     string  `json:"sub_topic_id"`
	SubTopicTitle  string  `json:"sub_topic_title"`
	Hours          float64 `json:"hours"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
}

// TableRowResponse 表格视图行：排课项 + 相邻去重展示标记
// 三个 show 标记分别在模块/子模块/主题标题与上一行不同时为 true
type TableRowResponse struct {
	CalendarItemResponse
	ShowModule    bool `json:"show_module"`
	ShowSubModule bool `json:"show_sub_module"`
	ShowTopic     bool `json:"show_topic"`
}

// CalendarStatsResponse 排课完成统计
type CalendarStatsResponse struct {
	TotalItems      int                        `json:"total_items"`
	TotalHours      float64                    `json:"total_hours"`
	ByStatus        map[string]CalendarStatRow `json:"by_status"`
	ProgressPercent float64                    `json:"progress_percent"` // 已完成学时占比
}

// CalendarStatRow 单状态统计
type CalendarStatRow struct {
	Count int     `json:"count"`
	Hours float64 `json:"hours"`
}

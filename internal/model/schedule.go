package model

import "time"

// 排课项状态
const (
	ItemStatusScheduled  = "scheduled"
	ItemStatusInProgress = "in_progress"
	ItemStatusCompleted  = "completed"
	ItemStatusCancelled  = "cancelled"
)

// CourseCalendar 课程日历表 — 对应 course_calendars
// 一次排课生成的配置与汇总统计；重新生成时旧日历归档
type CourseCalendar struct {
	CalendarID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"calendar_id"`
	CourseID      string    `gorm:"type:uuid;not null"                             json:"course_id"`
	HierarchyMode string    `gorm:"type:varchar(20);not null;default:'subtopic'"   json:"hierarchy_mode"` // module | submodule | topic | subtopic
	StartDate     time.Time `gorm:"type:date;not null"                             json:"start_date"`
	DailyHours    float64   `gorm:"type:numeric(5,2);not null"                     json:"daily_hours"`
	LunchStart    string    `gorm:"type:varchar(5);not null"                       json:"lunch_start"` // "HH:MM"
	LunchEnd      string    `gorm:"type:varchar(5);not null"                       json:"lunch_end"`
	ShortBreaks   BreakList `gorm:"type:jsonb;not null;default:'[]'"               json:"short_breaks"`
	Weekends      IntArray  `gorm:"type:int[];not null"                            json:"weekends"` // 0=周日 … 6=周六
	Holidays      DateList  `gorm:"type:jsonb;not null;default:'[]'"               json:"holidays"` // "2006-01-02" 列表

	// 汇总统计（生成时派生，只读）
	WorkingHoursPerDay float64   `gorm:"type:numeric(6,2);not null" json:"working_hours_per_day"`
	TotalDuration      float64   `gorm:"type:numeric(8,2);not null" json:"total_duration"`
	EstimatedDays      int       `gorm:"not null;default:0"         json:"estimated_days"`
	ActualDays         int       `gorm:"not null;default:0"         json:"actual_days"`
	ModuleCount        int       `gorm:"not null;default:0"         json:"module_count"`
	FirstDate          time.Time `gorm:"type:date;not null"         json:"first_date"`
	LastDate           time.Time `gorm:"type:date;not null"         json:"last_date"`

	Status string `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // active | archived
	VersionedModel

	// 关联
	Course *Course        `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Items  []CalendarItem `gorm:"foreignKey:CalendarID"                   json:"items,omitempty"`
}

// TableName 指定表名
func (CourseCalendar) TableName() string { return "course_calendars" }

// CalendarItem 排课项表 — 对应 calendar_items
// 一个子主题在某一天分得的学时；祖先路径冗余展开便于直接渲染
type CalendarItem struct {
	ItemID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"item_id"`
	CalendarID     string    `gorm:"type:uuid;not null"                             json:"calendar_id"`
	ItemDate       time.Time `gorm:"column:item_date;type:date;not null"            json:"date"`
	ModuleID       string    `gorm:"type:uuid;not null"                             json:"module_id"`
	ModuleTitle    string    `gorm:"type:varchar(200);not null"                     json:"module_title"`
	ModuleColor    string    `gorm:"type:varchar(20);not null"                      json:"module_color"`
	SubModuleID    *string   `gorm:"type:uuid"                                      json:"sub_module_id,omitempty"` // nil = 主题直属模块
	SubModuleTitle string    `gorm:"type:varchar(200);not null"                     json:"sub_module_title"`
	TopicID        string    `gorm:"type:uuid;not null"                             json:"topic_id"`
	TopicTitle     string    `gorm:"type:varchar(200);not null"                     json:"topic_title"`
	SubTopicID     string    `gorm:"type:uuid;not null"                             json:"sub_topic_id"`
	SubTopicTitle  string    `gorm:"type:varchar(200);not null"                     json:"sub_topic_title"`
	Hours          float64   `gorm:"type:numeric(6,2);not null"                     json:"hours"`
	ItemType       string    `gorm:"type:varchar(20);not null;default:'learning'"   json:"type"`
	Status         string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	Sequence       int       `gorm:"not null;default:0"                             json:"sequence"` // 生成顺序，读取时按此排序
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// TableName 指定表名
func (CalendarItem) TableName() string { return "calendar_items" }

package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	InstitutionID string `gorm:"type:uuid;not null"                             json:"institution_id"`
	OwnerID       string `gorm:"type:uuid;not null"                             json:"owner_id"`
	Title         string `gorm:"type:varchar(200);not null"                     json:"title"`
	Code          string `gorm:"type:varchar(50)"                               json:"code,omitempty"`
	Description   string `gorm:"type:text"                                      json:"description,omitempty"`
	VersionedModel

	// 关联
	Institution *Institution   `gorm:"foreignKey:InstitutionID;references:InstitutionID" json:"institution,omitempty"`
	Owner       *User          `gorm:"foreignKey:OwnerID;references:UserID"              json:"owner,omitempty"`
	Modules     []CourseModule `gorm:"foreignKey:CourseID"                               json:"modules,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// CourseModule 课程模块表 — 对应 course_modules
// 大纲树第一层；Position 决定排课顺序与展示颜色
type CourseModule struct {
	ModuleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_id"`
	CourseID string `gorm:"type:uuid;not null"                             json:"course_id"`
	Title    string `gorm:"type:varchar(200);not null"                     json:"title"`
	Position int    `gorm:"not null;default:0"                             json:"position"`
	BaseModel

	// 关联
	SubModules []SubModule `gorm:"foreignKey:ModuleID" json:"sub_modules,omitempty"`
	Topics     []Topic     `gorm:"foreignKey:ModuleID" json:"topics,omitempty"`
}

// TableName 指定表名
func (CourseModule) TableName() string { return "course_modules" }

// SubModule 子模块表 — 对应 sub_modules
type SubModule struct {
	SubModuleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sub_module_id"`
	ModuleID    string `gorm:"type:uuid;not null"                             json:"module_id"`
	Title       string `gorm:"type:varchar(200);not null"                     json:"title"`
	Position    int    `gorm:"not null;default:0"                             json:"position"`
	BaseModel

	// 关联
	Topics []Topic `gorm:"foreignKey:SubModuleID" json:"topics,omitempty"`
}

// TableName 指定表名
func (SubModule) TableName() string { return "sub_modules" }

// Topic 主题表 — 对应 topics
// SubModuleID 为 nil 表示主题直属于模块（不经过子模块）
type Topic struct {
	TopicID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"topic_id"`
	ModuleID    string  `gorm:"type:uuid;not null"                             json:"module_id"`
	SubModuleID *string `gorm:"type:uuid"                                      json:"sub_module_id,omitempty"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Position    int     `gorm:"not null;default:0"                             json:"position"`
	BaseModel

	// 关联
	SubTopics []SubTopic `gorm:"foreignKey:TopicID" json:"sub_topics,omitempty"`
}

// TableName 指定表名
func (Topic) TableName() string { return "topics" }

// SubTopic 子主题表 — 对应 sub_topics
// 大纲树唯一携带学时的叶子节点
type SubTopic struct {
	SubTopicID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sub_topic_id"`
	TopicID    string  `gorm:"type:uuid;not null"                             json:"topic_id"`
	Title      string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Duration   float64 `gorm:"type:numeric(6,2);not null"                     json:"duration"` // 学时（小时，>0）
	Position   int     `gorm:"not null;default:0"                             json:"position"`
	BaseModel
}

// TableName 指定表名
func (SubTopic) TableName() string { return "sub_topics" }

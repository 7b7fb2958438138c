package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Title         string `json:"title"          binding:"required,min=2,max=200"`
	Code          string `json:"code"           binding:"omitempty,max=50"`
	Description   string `json:"description"    binding:"omitempty,max=5000"`
	InstitutionID string `json:"institution_id" binding:"required,uuid"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=2,max=200"`
	Code        *string `json:"code"        binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	InstitutionID string `form:"institution_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// ── 大纲树节点请求 ──

// CreateModuleRequest 创建模块请求
type CreateModuleRequest struct {
	Title    string `json:"title"    binding:"required,min=1,max=200"`
	Position int    `json:"position" binding:"omitempty,min=0"`
}

// CreateSubModuleRequest 创建子模块请求
type CreateSubModuleRequest struct {
	ModuleID string `json:"module_id" binding:"required,uuid"`
	Title    string `json:"title"     binding:"required,min=1,max=200"`
	Position int    `json:"position"  binding:"omitempty,min=0"`
}

// CreateTopicRequest 创建主题请求
// SubModuleID 为空表示主题直属于模块
type CreateTopicRequest struct {
	ModuleID    string  `json:"module_id"     binding:"required,uuid"`
	SubModuleID *string `json:"sub_module_id" binding:"omitempty,uuid"`
	Title       string  `json:"title"         binding:"required,min=1,max=200"`
	Position    int     `json:"position"      binding:"omitempty,min=0"`
}

// CreateSubTopicRequest 创建子主题请求
type CreateSubTopicRequest struct {
	TopicID  string  `json:"topic_id" binding:"required,uuid"`
	Title    string  `json:"title"    binding:"required,min=1,max=200"`
	Duration float64 `json:"duration" binding:"required,gt=0"` // 学时（小时）
	Position int     `json:"position" binding:"omitempty,min=0"`
}

// UpdateNodeRequest 更新大纲节点请求（模块/子模块/主题/子主题共用）
type UpdateNodeRequest struct {
	Title    *string  `json:"title"    binding:"omitempty,min=1,max=200"`
	Position *int     `json:"position" binding:"omitempty,min=0"`
	Duration *float64 `json:"duration" binding:"omitempty,gt=0"` // 仅子主题有效
}

// ── 响应 ──

// CourseResponse 课程响应（含完整大纲树）
type CourseResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Code        string            `json:"code,omitempty"`
	Description string            `json:"description,omitempty"`
	Institution *InstitutionBrief `json:"institution,omitempty"`
	Owner       *UserBrief        `json:"owner,omitempty"`
	Modules     []ModuleResponse  `json:"modules,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// ModuleResponse 模块响应
type ModuleResponse struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Position   int                 `json:"position"`
	Topics     []TopicResponse     `json:"topics,omitempty"` // 直属主题
	SubModules []SubModuleResponse `json:"sub_modules,omitempty"`
}

// SubModuleResponse 子模块响应
type SubModuleResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Topics   []TopicResponse `json:"topics,omitempty"`
}

// TopicResponse 主题响应
type TopicResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Position  int                `json:"position"`
	SubTopics []SubTopicResponse `json:"sub_topics,omitempty"`
}

// SubTopicResponse 子主题响应
type SubTopicResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Position int     `json:"position"`
}

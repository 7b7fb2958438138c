package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Name          string `json:"name"           binding:"required,min=2,max=100"`
	Email         string `json:"email"          binding:"required,email"`
	Password      string `json:"password"       binding:"required,min=6,max=72"`
	Role          string `json:"role"           binding:"required,oneof=admin instructor student"`
	InstitutionID string `json:"institution_id" binding:"required,uuid"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// AssignRoleRequest 角色分配请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin instructor student"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	InstitutionID string `form:"institution_id" binding:"omitempty,uuid"`
	Role          string `form:"role"           binding:"omitempty,oneof=admin instructor student"`
	PaginationRequest
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Role        string            `json:"role"`
	Institution *InstitutionBrief `json:"institution,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
}

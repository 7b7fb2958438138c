package dto

// ── 机构模块 DTO ──

// CreateInstitutionRequest 创建机构请求
type CreateInstitutionRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=150"`
	Code         string `json:"code"          binding:"required,min=2,max=50"`
	Address      string `json:"address"       binding:"omitempty,max=300"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// UpdateInstitutionRequest 更新机构请求
type UpdateInstitutionRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=150"`
	Address      *string `json:"address"       binding:"omitempty,max=300"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	IsActive     *bool   `json:"is_active"`
}

// InstitutionListRequest 机构列表查询参数
type InstitutionListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
	PaginationRequest
}

// InstitutionResponse 机构详细响应
type InstitutionResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Address      string `json:"address,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

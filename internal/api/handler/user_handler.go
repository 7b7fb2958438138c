package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/service"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/response"
)

// UserHandler 用户管理接口
type UserHandler struct {
	svc    service.UserService
	logger *zap.Logger
}

// NewUserHandler 创建用户 Handler
func NewUserHandler(svc service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Create 创建用户
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.Conflict(c, 40910, err.Error())
		case errors.Is(err, service.ErrInstitutionNotFound):
			response.NotFound(c, 40420, err.Error())
		default:
			h.logger.Error("创建用户失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.Created(c, resp)
}

// Get 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 40410, err.Error())
			return
		}
		h.logger.Error("查询用户失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Update 更新用户
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 40410, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.Conflict(c, 40910, err.Error())
		default:
			h.logger.Error("更新用户失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}

// AssignRole 角色分配
// PUT /api/v1/users/:id/role
func (h *UserHandler) AssignRole(c *gin.Context) {
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.AssignRole(c.Request.Context(), c.Param("id"), req.Role, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 40410, err.Error())
			return
		}
		h.logger.Error("角色分配失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Delete 删除用户
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), getUserID(c)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 40410, err.Error())
			return
		}
		h.logger.Error("删除用户失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"message": "删除成功"})
}

// List 用户列表
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	users, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("查询用户列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

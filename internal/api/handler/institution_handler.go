package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/service"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/response"
)

// InstitutionHandler 机构管理接口
type InstitutionHandler struct {
	svc    service.InstitutionService
	logger *zap.Logger
}

// NewInstitutionHandler 创建机构 Handler
func NewInstitutionHandler(svc service.InstitutionService, logger *zap.Logger) *InstitutionHandler {
	return &InstitutionHandler{svc: svc, logger: logger}
}

// Create 创建机构
// POST /api/v1/institutions
func (h *InstitutionHandler) Create(c *gin.Context) {
	var req dto.CreateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrInstitutionCodeTaken) {
			response.Conflict(c, 40920, err.Error())
			return
		}
		h.logger.Error("创建机构失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.Created(c, resp)
}

// Get 机构详情
// GET /api/v1/institutions/:id
func (h *InstitutionHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInstitutionNotFound) {
			response.NotFound(c, 40420, err.Error())
			return
		}
		h.logger.Error("查询机构失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Update 更新机构
// PUT /api/v1/institutions/:id
func (h *InstitutionHandler) Update(c *gin.Context) {
	var req dto.UpdateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrInstitutionNotFound) {
			response.NotFound(c, 40420, err.Error())
			return
		}
		h.logger.Error("更新机构失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Delete 删除机构
// DELETE /api/v1/institutions/:id
func (h *InstitutionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), getUserID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrInstitutionNotFound):
			response.NotFound(c, 40420, err.Error())
		case errors.Is(err, service.ErrInstitutionHasUsers):
			response.Conflict(c, 40921, err.Error())
		default:
			h.logger.Error("删除机构失败", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, gin.H{"message": "删除成功"})
}

// List 机构列表
// GET /api/v1/institutions
func (h *InstitutionHandler) List(c *gin.Context) {
	var req dto.InstitutionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	insts, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("查询机构列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OKPage(c, insts, total, req.GetPage(), req.GetPageSize())
}

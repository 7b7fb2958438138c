package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/service"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/response"
)

// CourseHandler 课程与大纲管理接口
type CourseHandler struct {
	svc    service.CourseService
	logger *zap.Logger
}

// NewCourseHandler 创建课程 Handler
func NewCourseHandler(svc service.CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{svc: svc, logger: logger}
}

// courseError 课程模块错误 → HTTP 响应的统一映射
func (h *CourseHandler) courseError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 40430, err.Error())
	case errors.Is(err, service.ErrModuleNotFound),
		errors.Is(err, service.ErrSubModuleNotFound),
		errors.Is(err, service.ErrTopicNotFound),
		errors.Is(err, service.ErrSubTopicNotFound):
		response.NotFound(c, 40431, err.Error())
	case errors.Is(err, service.ErrNodeMismatch):
		response.BadRequest(c, 40030, err.Error())
	case errors.Is(err, service.ErrInstitutionNotFound):
		response.NotFound(c, 40420, err.Error())
	default:
		h.logger.Error(action, zap.Error(err))
		response.InternalError(c)
	}
}

// ── 课程 ──

// Create 创建课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, getUserID(c))
	if err != nil {
		h.courseError(c, err, "创建课程失败")
		return
	}
	response.Created(c, resp)
}

// Get 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.courseError(c, err, "查询课程失败")
		return
	}
	response.OK(c, resp)
}

// GetTree 课程大纲树
// GET /api/v1/courses/:id/tree
func (h *CourseHandler) GetTree(c *gin.Context) {
	resp, err := h.svc.GetTree(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.courseError(c, err, "查询大纲树失败")
		return
	}
	response.OK(c, resp)
}

// Update 更新课程
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, getUserID(c))
	if err != nil {
		h.courseError(c, err, "更新课程失败")
		return
	}
	response.OK(c, resp)
}

// Delete 删除课程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), getUserID(c)); err != nil {
		h.courseError(c, err, "删除课程失败")
		return
	}
	response.OK(c, gin.H{"message": "删除成功"})
}

// List 课程列表
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	courses, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("查询课程列表失败", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OKPage(c, courses, total, req.GetPage(), req.GetPageSize())
}

// ── 大纲节点 ──

// AddModule 新增模块
// POST /api/v1/courses/:id/modules
func (h *CourseHandler) AddModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.AddModule(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.courseError(c, err, "新增模块失败")
		return
	}
	response.Created(c, resp)
}

// AddSubModule 新增子模块
// POST /api/v1/courses/:id/sub-modules
func (h *CourseHandler) AddSubModule(c *gin.Context) {
	var req dto.CreateSubModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.AddSubModule(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.courseError(c, err, "新增子模块失败")
		return
	}
	response.Created(c, resp)
}

// AddTopic 新增主题
// POST /api/v1/courses/:id/topics
func (h *CourseHandler) AddTopic(c *gin.Context) {
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.AddTopic(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.courseError(c, err, "新增主题失败")
		return
	}
	response.Created(c, resp)
}

// AddSubTopic 新增子主题
// POST /api/v1/courses/:id/sub-topics
func (h *CourseHandler) AddSubTopic(c *gin.Context) {
	var req dto.CreateSubTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.AddSubTopic(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.courseError(c, err, "新增子主题失败")
		return
	}
	response.Created(c, resp)
}

// UpdateNode 更新大纲节点（按 kind 分派）
// PUT /api/v1/syllabus/:kind/:id
func (h *CourseHandler) UpdateNode(c *gin.Context) {
	var req dto.UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	var err error
	id := c.Param("id")
	switch c.Param("kind") {
	case "modules":
		err = h.svc.UpdateModule(c.Request.Context(), id, &req)
	case "sub-modules":
		err = h.svc.UpdateSubModule(c.Request.Context(), id, &req)
	case "topics":
		err = h.svc.UpdateTopic(c.Request.Context(), id, &req)
	case "sub-topics":
		err = h.svc.UpdateSubTopic(c.Request.Context(), id, &req)
	default:
		response.BadRequest(c, 40031, "未知的大纲节点类型")
		return
	}
	if err != nil {
		h.courseError(c, err, "更新大纲节点失败")
		return
	}
	response.OK(c, gin.H{"message": "更新成功"})
}

// DeleteNode 删除大纲节点（按 kind 分派）
// DELETE /api/v1/syllabus/:kind/:id
func (h *CourseHandler) DeleteNode(c *gin.Context) {
	var err error
	id := c.Param("id")
	switch c.Param("kind") {
	case "modules":
		err = h.svc.DeleteModule(c.Request.Context(), id)
	case "sub-modules":
		err = h.svc.DeleteSubModule(c.Request.Context(), id)
	case "topics":
		err = h.svc.DeleteTopic(c.Request.Context(), id)
	case "sub-topics":
		err = h.svc.DeleteSubTopic(c.Request.Context(), id)
	default:
		response.BadRequest(c, 40031, "未知的大纲节点类型")
		return
	}
	if err != nil {
		h.courseError(c, err, "删除大纲节点失败")
		return
	}
	response.OK(c, gin.H{"message": "删除成功"})
}

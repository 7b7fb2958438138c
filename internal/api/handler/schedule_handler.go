package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/service"
	pkgerrors "github.com/RoobanKR/LMS-Server-sub001/pkg/errors"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/response"
)

// ScheduleHandler 课程日历（排课）接口
type ScheduleHandler struct {
	svc    service.ScheduleService
	logger *zap.Logger
}

// NewScheduleHandler 创建排课 Handler
func NewScheduleHandler(svc service.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

// scheduleError 排课模块错误 → HTTP 响应的统一映射
func (h *ScheduleHandler) scheduleError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 40430, err.Error())
	case errors.Is(err, service.ErrCalendarNotFound),
		errors.Is(err, service.ErrNoActiveCalendar):
		response.NotFound(c, 40440, err.Error())
	case errors.Is(err, service.ErrCalendarItemNotFound):
		response.NotFound(c, 40441, err.Error())
	case errors.Is(err, service.ErrCalendarArchived):
		response.Conflict(c, 40940, err.Error())
	case errors.Is(err, service.ErrInvalidBreakInterval),
		errors.Is(err, service.ErrNoWorkingHours),
		errors.Is(err, service.ErrNoWorkingDays),
		errors.Is(err, service.ErrInvalidCalendarConfig):
		response.BadRequest(c, 40040, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 40941, "数据已被其他操作修改，请重试")
	default:
		h.logger.Error(action, zap.Error(err))
		response.InternalError(c)
	}
}

// Generate 生成课程日历
// POST /api/v1/courses/:id/calendar
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.CalendarConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), c.Param("id"), &req, getUserID(c))
	if err != nil {
		h.scheduleError(c, err, "生成课程日历失败")
		return
	}
	response.Created(c, resp)
}

// Regenerate 按新配置重建日历
// PUT /api/v1/calendars/:id
func (h *ScheduleHandler) Regenerate(c *gin.Context) {
	var req dto.CalendarConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.Regenerate(c.Request.Context(), c.Param("id"), &req, getUserID(c))
	if err != nil {
		h.scheduleError(c, err, "重建课程日历失败")
		return
	}
	response.OK(c, resp)
}

// GetByCourse 课程当前生效日历
// GET /api/v1/courses/:id/calendar
func (h *ScheduleHandler) GetByCourse(c *gin.Context) {
	resp, err := h.svc.GetByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.scheduleError(c, err, "查询课程日历失败")
		return
	}
	response.OK(c, resp)
}

// CalendarView 日历视图（按日期分组）
// GET /api/v1/calendars/:id/calendar-view
func (h *ScheduleHandler) CalendarView(c *gin.Context) {
	resp, err := h.svc.GetCalendarView(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.scheduleError(c, err, "查询日历视图失败")
		return
	}
	response.OK(c, resp)
}

// TableView 表格视图（相邻去重标记）
// GET /api/v1/calendars/:id/table-view
func (h *ScheduleHandler) TableView(c *gin.Context) {
	resp, err := h.svc.GetTableView(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.scheduleError(c, err, "查询表格视图失败")
		return
	}
	response.OK(c, resp)
}

// ListItems 排课项列表（日期范围过滤 + 分页）
// GET /api/v1/calendars/:id/items
func (h *ScheduleHandler) ListItems(c *gin.Context) {
	var req dto.CalendarItemListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	items, total, err := h.svc.ListItems(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.scheduleError(c, err, "查询排课项失败")
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// UpdateItemStatus 更新排课项状态
// PATCH /api/v1/calendars/items/:itemId/status
func (h *ScheduleHandler) UpdateItemStatus(c *gin.Context) {
	var req dto.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "请求参数错误")
		return
	}

	resp, err := h.svc.UpdateItemStatus(c.Request.Context(), c.Param("itemId"), req.Status)
	if err != nil {
		h.scheduleError(c, err, "更新排课项状态失败")
		return
	}
	response.OK(c, resp)
}

// Stats 排课完成统计
// GET /api/v1/calendars/:id/stats
func (h *ScheduleHandler) Stats(c *gin.Context) {
	resp, err := h.svc.GetStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.scheduleError(c, err, "查询排课统计失败")
		return
	}
	response.OK(c, resp)
}

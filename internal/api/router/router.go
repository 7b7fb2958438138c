package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/config"
	"github.com/RoobanKR/LMS-Server-sub001/internal/api/handler"
	"github.com/RoobanKR/LMS-Server-sub001/internal/api/middleware"
	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/jwt"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/redis"
)

// New 组装路由
func New(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.JWTAuth(jwtMgr, redisClient, logger)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)
	staff := middleware.RoleAuth(model.RoleAdmin, model.RoleInstructor)

	v1 := r.Group("/api/v1")
	{
		// 认证
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.RefreshToken)
			authGroup.POST("/logout", auth, h.Auth.Logout)
			authGroup.GET("/me", auth, h.Auth.Me)
		}

		// 机构管理（仅管理员可写）
		institutions := v1.Group("/institutions", auth)
		{
			institutions.GET("", h.Institution.List)
			institutions.GET("/:id", h.Institution.Get)
			institutions.POST("", adminOnly, h.Institution.Create)
			institutions.PUT("/:id", adminOnly, h.Institution.Update)
			institutions.DELETE("/:id", adminOnly, h.Institution.Delete)
		}

		// 用户管理（仅管理员）
		users := v1.Group("/users", auth, adminOnly)
		{
			users.GET("", h.User.List)
			users.GET("/:id", h.User.Get)
			users.POST("", h.User.Create)
			users.PUT("/:id", h.User.Update)
			users.PUT("/:id/role", h.User.AssignRole)
			users.DELETE("/:id", h.User.Delete)
		}

		// 课程与大纲
		courses := v1.Group("/courses", auth)
		{
			courses.GET("", h.Course.List)
			courses.GET("/:id", h.Course.Get)
			courses.GET("/:id/tree", h.Course.GetTree)
			courses.POST("", staff, h.Course.Create)
			courses.PUT("/:id", staff, h.Course.Update)
			courses.DELETE("/:id", staff, h.Course.Delete)

			courses.POST("/:id/modules", staff, h.Course.AddModule)
			courses.POST("/:id/sub-modules", staff, h.Course.AddSubModule)
			courses.POST("/:id/topics", staff, h.Course.AddTopic)
			courses.POST("/:id/sub-topics", staff, h.Course.AddSubTopic)

			// 课程日历
			courses.POST("/:id/calendar", staff, h.Schedule.Generate)
			courses.GET("/:id/calendar", h.Schedule.GetByCourse)
		}

		// 大纲节点更新/删除
		syllabus := v1.Group("/syllabus", auth, staff)
		{
			syllabus.PUT("/:kind/:id", h.Course.UpdateNode)
			syllabus.DELETE("/:kind/:id", h.Course.DeleteNode)
		}

		// 日历视图与排课项
		calendars := v1.Group("/calendars", auth)
		{
			calendars.PUT("/:id", staff, h.Schedule.Regenerate)
			calendars.GET("/:id/calendar-view", h.Schedule.CalendarView)
			calendars.GET("/:id/table-view", h.Schedule.TableView)
			calendars.GET("/:id/items", h.Schedule.ListItems)
			calendars.GET("/:id/stats", h.Schedule.Stats)
			calendars.PATCH("/items/:itemId/status", staff, h.Schedule.UpdateItemStatus)
		}
	}

	return r
}

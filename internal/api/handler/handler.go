package handler

import (
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Institution *InstitutionHandler
	Course      *CourseHandler
	Schedule    *ScheduleHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, logger),
		User:        NewUserHandler(svc.User, logger),
		Institution: NewInstitutionHandler(svc.Institution, logger),
		Course:      NewCourseHandler(svc.Course, logger),
		Schedule:    NewScheduleHandler(svc.Schedule, logger),
	}
}

package service

import (
	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/config"
	"github.com/RoobanKR/LMS-Server-sub001/internal/repository"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/jwt"
	"github.com/RoobanKR/LMS-Server-sub001/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	User        UserService
	Institution InstitutionService
	Course      CourseService
	Schedule    ScheduleService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	cfg *config.Config,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, jwtMgr, redisClient, logger),
		User:        NewUserService(repo, logger),
		Institution: NewInstitutionService(repo, logger),
		Course:      NewCourseService(repo, logger),
		Schedule:    NewScheduleService(repo, cfg.Schedule.MaxScanDays, logger),
	}
}

package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	"github.com/RoobanKR/LMS-Server-sub001/internal/repository"
)

// 课程模块错误定义
var (
	ErrCourseNotFound    = errors.New("课程不存在")
	ErrModuleNotFound    = errors.New("课程模块不存在")
	ErrSubModuleNotFound = errors.New("子模块不存在")
	ErrTopicNotFound     = errors.New("主题不存在")
	ErrSubTopicNotFound  = errors.New("子主题不存在")
	ErrNodeMismatch      = errors.New("大纲节点与课程不匹配")
)

// CourseService 课程与大纲服务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, ownerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	// GetTree 返回课程及完整大纲树
	GetTree(ctx context.Context, id string) (*dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, operatorID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)

	// 大纲节点操作
	AddModule(ctx context.Context, courseID string, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error)
	AddSubModule(ctx context.Context, courseID string, req *dto.CreateSubModuleRequest) (*dto.SubModuleResponse, error)
	AddTopic(ctx context.Context, courseID string, req *dto.CreateTopicRequest) (*dto.TopicResponse, error)
	AddSubTopic(ctx context.Context, courseID string, req *dto.CreateSubTopicRequest) (*dto.SubTopicResponse, error)
	UpdateModule(ctx context.Context, moduleID string, req *dto.UpdateNodeRequest) error
	UpdateSubModule(ctx context.Context, subModuleID string, req *dto.UpdateNodeRequest) error
	UpdateTopic(ctx context.Context, topicID string, req *dto.UpdateNodeRequest) error
	UpdateSubTopic(ctx context.Context, subTopicID string, req *dto.UpdateNodeRequest) error
	DeleteModule(ctx context.Context, moduleID string) error
	DeleteSubModule(ctx context.Context, subModuleID string) error
	DeleteTopic(ctx context.Context, topicID string) error
	DeleteSubTopic(ctx context.Context, subTopicID string) error
}

// courseService CourseService 实现
type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建课程服务实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════════
// 课程
// ════════════════════════════════════════════════════════════════

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, ownerID string) (*dto.CourseResponse, error) {
	if _, err := s.repo.Institution.GetByID(ctx, req.InstitutionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstitutionNotFound
		}
		return nil, err
	}

	course := &model.Course{
		InstitutionID: req.InstitutionID,
		OwnerID:       ownerID,
		Title:         req.Title,
		Code:          req.Code,
		Description:   req.Description,
	}
	course.CreatedBy = &ownerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.String("title", req.Title), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程创建成功",
		zap.String("course_id", course.CourseID),
		zap.String("owner_id", ownerID))

	resp := toCourseResponse(course, false)
	return &resp, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	resp := toCourseResponse(course, false)
	return &resp, nil
}

func (s *courseService) GetTree(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetTree(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	resp := toCourseResponse(course, true)
	return &resp, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, operatorID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	course.UpdatedBy = &operatorID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		return nil, err
	}
	resp := toCourseResponse(course, false)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return s.repo.Course.Delete(ctx, id, operatorID)
}

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	courses, total, err := s.repo.Course.List(ctx, req.InstitutionID, "", req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	resp := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		resp = append(resp, toCourseResponse(&courses[i], false))
	}
	return resp, total, nil
}

// ════════════════════════════════════════════════════════════════
// 大纲节点
// ════════════════════════════════════════════════════════════════

func (s *courseService) AddModule(ctx context.Context, courseID string, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	m := &model.CourseModule{
		CourseID: courseID,
		Title:    req.Title,
		Position: req.Position,
	}
	if err := s.repo.Syllabus.CreateModule(ctx, m); err != nil {
		return nil, err
	}

	resp := toModuleResponse(m)
	return &resp, nil
}

func (s *courseService) AddSubModule(ctx context.Context, courseID string, req *dto.CreateSubModuleRequest) (*dto.SubModuleResponse, error) {
	mod, err := s.repo.Syllabus.GetModule(ctx, req.ModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	if mod.CourseID != courseID {
		return nil, ErrNodeMismatch
	}

	sm := &model.SubModule{
		ModuleID: req.ModuleID,
		Title:    req.Title,
		Position: req.Position,
	}
	if err := s.repo.Syllabus.CreateSubModule(ctx, sm); err != nil {
		return nil, err
	}

	resp := toSubModuleResponse(sm)
	return &resp, nil
}

func (s *courseService) AddTopic(ctx context.Context, courseID string, req *dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	mod, err := s.repo.Syllabus.GetModule(ctx, req.ModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	if mod.CourseID != courseID {
		return nil, ErrNodeMismatch
	}

	// 挂在子模块下时校验子模块归属
	if req.SubModuleID != nil {
		sm, err := s.repo.Syllabus.GetSubModule(ctx, *req.SubModuleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSubModuleNotFound
			}
			return nil, err
		}
		if sm.ModuleID != req.ModuleID {
			return nil, ErrNodeMismatch
		}
	}

	t := &model.Topic{
		ModuleID:    req.ModuleID,
		SubModuleID: req.SubModuleID,
		Title:       req.Title,
		Position:    req.Position,
	}
	if err := s.repo.Syllabus.CreateTopic(ctx, t); err != nil {
		return nil, err
	}

	resp := toTopicResponse(t)
	return &resp, nil
}

func (s *courseService) AddSubTopic(ctx context.Context, courseID string, req *dto.CreateSubTopicRequest) (*dto.SubTopicResponse, error) {
	topic, err := s.repo.Syllabus.GetTopic(ctx, req.TopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	mod, err := s.repo.Syllabus.GetModule(ctx, topic.ModuleID)
	if err != nil {
		return nil, err
	}
	if mod.CourseID != courseID {
		return nil, ErrNodeMismatch
	}

	st := &model.SubTopic{
		TopicID:  req.TopicID,
		Title:    req.Title,
		Duration: req.Duration,
		Position: req.Position,
	}
	if err := s.repo.Syllabus.CreateSubTopic(ctx, st); err != nil {
		return nil, err
	}

	resp := toSubTopicResponse(st)
	return &resp, nil
}

func (s *courseService) UpdateModule(ctx context.Context, moduleID string, req *dto.UpdateNodeRequest) error {
	m, err := s.repo.Syllabus.GetModule(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Position != nil {
		m.Position = *req.Position
	}
	return s.repo.Syllabus.UpdateModule(ctx, m)
}

func (s *courseService) UpdateSubModule(ctx context.Context, subModuleID string, req *dto.UpdateNodeRequest) error {
	sm, err := s.repo.Syllabus.GetSubModule(ctx, subModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubModuleNotFound
		}
		return err
	}
	if req.Title != nil {
		sm.Title = *req.Title
	}
	if req.Position != nil {
		sm.Position = *req.Position
	}
	return s.repo.Syllabus.UpdateSubModule(ctx, sm)
}

func (s *courseService) UpdateTopic(ctx context.Context, topicID string, req *dto.UpdateNodeRequest) error {
	t, err := s.repo.Syllabus.GetTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Position != nil {
		t.Position = *req.Position
	}
	return s.repo.Syllabus.UpdateTopic(ctx, t)
}

func (s *courseService) UpdateSubTopic(ctx context.Context, subTopicID string, req *dto.UpdateNodeRequest) error {
	st, err := s.repo.Syllabus.GetSubTopic(ctx, subTopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubTopicNotFound
		}
		return err
	}
	if req.Title != nil {
		st.Title = *req.Title
	}
	if req.Duration != nil {
		st.Duration = *req.Duration
	}
	if req.Position != nil {
		st.Position = *req.Position
	}
	return s.repo.Syllabus.UpdateSubTopic(ctx, st)
}

func (s *courseService) DeleteModule(ctx context.Context, moduleID string) error {
	if _, err := s.repo.Syllabus.GetModule(ctx, moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleNotFound
		}
		return err
	}
	return s.repo.Syllabus.DeleteModule(ctx, moduleID)
}

func (s *courseService) DeleteSubModule(ctx context.Context, subModuleID string) error {
	if _, err := s.repo.Syllabus.GetSubModule(ctx, subModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubModuleNotFound
		}
		return err
	}
	return s.repo.Syllabus.DeleteSubModule(ctx, subModuleID)
}

func (s *courseService) DeleteTopic(ctx context.Context, topicID string) error {
	if _, err := s.repo.Syllabus.GetTopic(ctx, topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}
	return s.repo.Syllabus.DeleteTopic(ctx, topicID)
}

func (s *courseService) DeleteSubTopic(ctx context.Context, subTopicID string) error {
	if _, err := s.repo.Syllabus.GetSubTopic(ctx, subTopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubTopicNotFound
		}
		return err
	}
	return s.repo.Syllabus.DeleteSubTopic(ctx, subTopicID)
}

// ════════════════════════════════════════════════════════════════
// 辅助函数
// ════════════════════════════════════════════════════════════════

// toCourseResponse 课程模型 → 响应；withTree 时携带完整大纲
func toCourseResponse(course *model.Course, withTree bool) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:          course.CourseID,
		Title:       course.Title,
		Code:        course.Code,
		Description: course.Description,
		CreatedAt:   course.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   course.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if course.Institution != nil {
		resp.Institution = &dto.InstitutionBrief{
			ID:   course.Institution.InstitutionID,
			Name: course.Institution.Name,
			Code: course.Institution.Code,
		}
	}
	if course.Owner != nil {
		resp.Owner = &dto.UserBrief{
			ID:    course.Owner.UserID,
			Name:  course.Owner.Name,
			Email: course.Owner.Email,
			Role:  course.Owner.Role,
		}
	}
	if withTree {
		for i := range course.Modules {
			resp.Modules = append(resp.Modules, toModuleResponse(&course.Modules[i]))
		}
	}
	return resp
}

func toModuleResponse(m *model.CourseModule) dto.ModuleResponse {
	resp := dto.ModuleResponse{
		ID:       m.ModuleID,
		Title:    m.Title,
		Position: m.Position,
	}
	for i := range m.Topics {
		resp.Topics = append(resp.Topics, toTopicResponse(&m.Topics[i]))
	}
	for i := range m.SubModules {
		resp.SubModules = append(resp.SubModules, toSubModuleResponse(&m.SubModules[i]))
	}
	return resp
}

func toSubModuleResponse(sm *model.SubModule) dto.SubModuleResponse {
	resp := dto.SubModuleResponse{
		ID:       sm.SubModuleID,
		Title:    sm.Title,
		Position: sm.Position,
	}
	for i := range sm.Topics {
		resp.Topics = append(resp.Topics, toTopicResponse(&sm.Topics[i]))
	}
	return resp
}

func toTopicResponse(t *model.Topic) dto.TopicResponse {
	resp := dto.TopicResponse{
		ID:       t.TopicID,
		Title:    t.Title,
		Position: t.Position,
	}
	for i := range t.SubTopics {
		resp.SubTopics = append(resp.SubTopics, toSubTopicResponse(&t.SubTopics[i]))
	}
	return resp
}

func toSubTopicResponse(st *model.SubTopic) dto.SubTopicResponse {
	return dto.SubTopicResponse{
		ID:       st.SubTopicID,
		Title:    st.Title,
		Duration: st.Duration,
		Position: st.Position,
	}
}

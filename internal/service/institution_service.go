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

// 机构模块错误定义
var (
	ErrInstitutionNotFound  = errors.New("机构不存在")
	ErrInstitutionCodeTaken = errors.New("机构代码已存在")
	ErrInstitutionHasUsers  = errors.New("机构下仍有用户，无法删除")
)

// InstitutionService 机构服务接口
type InstitutionService interface {
	Create(ctx context.Context, req *dto.CreateInstitutionRequest, operatorID string) (*dto.InstitutionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.InstitutionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateInstitutionRequest, operatorID string) (*dto.InstitutionResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	List(ctx context.Context, req *dto.InstitutionListRequest) ([]dto.InstitutionResponse, int64, error)
}

// institutionService InstitutionService 实现
type institutionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInstitutionService 创建机构服务实例
func NewInstitutionService(repo *repository.Repository, logger *zap.Logger) InstitutionService {
	return &institutionService{repo: repo, logger: logger}
}

func (s *institutionService) Create(ctx context.Context, req *dto.CreateInstitutionRequest, operatorID string) (*dto.InstitutionResponse, error) {
	if _, err := s.repo.Institution.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrInstitutionCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	inst := &model.Institution{
		Name:         req.Name,
		Code:         req.Code,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		IsActive:     true,
	}
	inst.CreatedBy = &operatorID

	if err := s.repo.Institution.Create(ctx, inst); err != nil {
		s.logger.Error("创建机构失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("机构创建成功",
		zap.String("institution_id", inst.InstitutionID),
		zap.String("code", inst.Code))

	resp := toInstitutionResponse(inst)
	return &resp, nil
}

func (s *institutionService) GetByID(ctx context.Context, id string) (*dto.InstitutionResponse, error) {
	inst, err := s.repo.Institution.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstitutionNotFound
		}
		return nil, err
	}
	resp := toInstitutionResponse(inst)
	return &resp, nil
}

func (s *institutionService) Update(ctx context.Context, id string, req *dto.UpdateInstitutionRequest, operatorID string) (*dto.InstitutionResponse, error) {
	inst, err := s.repo.Institution.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstitutionNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		inst.Name = *req.Name
	}
	if req.Address != nil {
		inst.Address = *req.Address
	}
	if req.ContactEmail != nil {
		inst.ContactEmail = *req.ContactEmail
	}
	if req.IsActive != nil {
		inst.IsActive = *req.IsActive
	}
	inst.UpdatedBy = &operatorID

	if err := s.repo.Institution.Update(ctx, inst); err != nil {
		return nil, err
	}
	resp := toInstitutionResponse(inst)
	return &resp, nil
}

func (s *institutionService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Institution.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInstitutionNotFound
		}
		return err
	}

	count, err := s.repo.Institution.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInstitutionHasUsers
	}

	return s.repo.Institution.Delete(ctx, id, operatorID)
}

func (s *institutionService) List(ctx context.Context, req *dto.InstitutionListRequest) ([]dto.InstitutionResponse, int64, error) {
	insts, total, err := s.repo.Institution.List(ctx, req.IncludeInactive, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	resp := make([]dto.InstitutionResponse, 0, len(insts))
	for i := range insts {
		resp = append(resp, toInstitutionResponse(&insts[i]))
	}
	return resp, total, nil
}

// toInstitutionResponse 机构模型 → 响应
func toInstitutionResponse(inst *model.Institution) dto.InstitutionResponse {
	return dto.InstitutionResponse{
		ID:           inst.InstitutionID,
		Name:         inst.Name,
		Code:         inst.Code,
		Address:      inst.Address,
		ContactEmail: inst.ContactEmail,
		IsActive:     inst.IsActive,
		CreatedAt:    inst.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    inst.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/RoobanKR/LMS-Server-sub001/internal/dto"
	"github.com/RoobanKR/LMS-Server-sub001/internal/model"
	"github.com/RoobanKR/LMS-Server-sub001/internal/repository"
)

func newTestCourseService() (CourseService, *mockCourseRepo, *mockSyllabusRepo, *mockInstitutionRepo) {
	courseRepo := newMockCourseRepo()
	syllabusRepo := newMockSyllabusRepo()
	instRepo := newMockInstitutionRepo()
	repo := &repository.Repository{
		Course:      courseRepo,
		Syllabus:    syllabusRepo,
		Institution: instRepo,
	}
	return NewCourseService(repo, zap.NewNop()), courseRepo, syllabusRepo, instRepo
}

func TestCreateCourse(t *testing.T) {
	svc, _, _, instRepo := newTestCourseService()
	instRepo.insts["inst-1"] = &model.Institution{InstitutionID: "inst-1", Name: "测试机构", Code: "T1", IsActive: true}

	resp, err := svc.Create(context.Background(), &dto.CreateCourseRequest{
		Title:         "Go 后端实战",
		InstitutionID: "inst-1",
	}, "owner-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Title != "Go 后端实战" {
		t.Errorf("unexpected title %q", resp.Title)
	}
}

func TestCreateCourseUnknownInstitution(t *testing.T) {
	svc, _, _, _ := newTestCourseService()
	_, err := svc.Create(context.Background(), &dto.CreateCourseRequest{
		Title:         "Go 后端实战",
		InstitutionID: "missing",
	}, "owner-1")
	if !errors.Is(err, ErrInstitutionNotFound) {
		t.Errorf("expected ErrInstitutionNotFound, got %v", err)
	}
}

func TestAddSyllabusNodes(t *testing.T) {
	svc, courseRepo, _, _ := newTestCourseService()
	courseRepo.courses["course-1"] = &model.Course{CourseID: "course-1", Title: "课程"}

	mod, err := svc.AddModule(context.Background(), "course-1", &dto.CreateModuleRequest{Title: "模块一"})
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}

	sm, err := svc.AddSubModule(context.Background(), "course-1", &dto.CreateSubModuleRequest{
		ModuleID: mod.ID, Title: "子模块一",
	})
	if err != nil {
		t.Fatalf("AddSubModule: %v", err)
	}

	// 直属主题
	direct, err := svc.AddTopic(context.Background(), "course-1", &dto.CreateTopicRequest{
		ModuleID: mod.ID, Title: "直属主题",
	})
	if err != nil {
		t.Fatalf("AddTopic (direct): %v", err)
	}

	// 子模块主题
	smID := sm.ID
	if _, err := svc.AddTopic(context.Background(), "course-1", &dto.CreateTopicRequest{
		ModuleID: mod.ID, SubModuleID: &smID, Title: "子模块主题",
	}); err != nil {
		t.Fatalf("AddTopic (submodule): %v", err)
	}

	st, err := svc.AddSubTopic(context.Background(), "course-1", &dto.CreateSubTopicRequest{
		TopicID: direct.ID, Title: "子主题", Duration: 3.5,
	})
	if err != nil {
		t.Fatalf("AddSubTopic: %v", err)
	}
	if st.Duration != 3.5 {
		t.Errorf("duration: expected 3.5, got %v", st.Duration)
	}
}

func TestAddNodeCourseMismatch(t *testing.T) {
	svc, courseRepo, syllabusRepo, _ := newTestCourseService()
	courseRepo.courses["course-1"] = &model.Course{CourseID: "course-1"}
	courseRepo.courses["course-2"] = &model.Course{CourseID: "course-2"}
	syllabusRepo.modules["m1"] = &model.CourseModule{ModuleID: "m1", CourseID: "course-1", Title: "模块"}

	// 模块归属 course-1，经 course-2 的路径操作应被拒绝
	_, err := svc.AddSubModule(context.Background(), "course-2", &dto.CreateSubModuleRequest{
		ModuleID: "m1", Title: "子模块",
	})
	if !errors.Is(err, ErrNodeMismatch) {
		t.Errorf("expected ErrNodeMismatch, got %v", err)
	}
}

func TestAddTopicSubModuleOfOtherModule(t *testing.T) {
	svc, courseRepo, syllabusRepo, _ := newTestCourseService()
	courseRepo.courses["course-1"] = &model.Course{CourseID: "course-1"}
	syllabusRepo.modules["m1"] = &model.CourseModule{ModuleID: "m1", CourseID: "course-1"}
	syllabusRepo.modules["m2"] = &model.CourseModule{ModuleID: "m2", CourseID: "course-1"}
	syllabusRepo.subModules["sm1"] = &model.SubModule{SubModuleID: "sm1", ModuleID: "m2"}

	smID := "sm1"
	_, err := svc.AddTopic(context.Background(), "course-1", &dto.CreateTopicRequest{
		ModuleID: "m1", SubModuleID: &smID, Title: "主题",
	})
	if !errors.Is(err, ErrNodeMismatch) {
		t.Errorf("expected ErrNodeMismatch, got %v", err)
	}
}

func TestUpdateSubTopicDuration(t *testing.T) {
	svc, _, syllabusRepo, _ := newTestCourseService()
	syllabusRepo.subTopics["st1"] = &model.SubTopic{SubTopicID: "st1", TopicID: "t1", Title: "子主题", Duration: 2}

	d := 4.5
	if err := svc.UpdateSubTopic(context.Background(), "st1", &dto.UpdateNodeRequest{Duration: &d}); err != nil {
		t.Fatalf("UpdateSubTopic: %v", err)
	}
	if syllabusRepo.subTopics["st1"].Duration != 4.5 {
		t.Errorf("duration not updated: %v", syllabusRepo.subTopics["st1"].Duration)
	}
}

func TestDeleteNodeNotFound(t *testing.T) {
	svc, _, _, _ := newTestCourseService()
	if err := svc.DeleteTopic(context.Background(), "missing"); !errors.Is(err, ErrTopicNotFound) {
		t.Errorf("expected ErrTopicNotFound, got %v", err)
	}
	if err := svc.DeleteSubTopic(context.Background(), "missing"); !errors.Is(err, ErrSubTopicNotFound) {
		t.Errorf("expected ErrSubTopicNotFound, got %v", err)
	}
}

func TestGetTreeResponseShape(t *testing.T) {
	svc, courseRepo, _, _ := newTestCourseService()
	courseRepo.courses["course-1"] = &model.Course{
		CourseID: "course-1",
		Title:    "课程",
		Modules:  multiModuleCourse(),
	}

	resp, err := svc.GetTree(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if len(resp.Modules) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(resp.Modules))
	}
	if len(resp.Modules[0].Topics) != 1 {
		t.Errorf("module 1 should carry its direct topic")
	}
	if len(resp.Modules[1].SubModules) != 1 || len(resp.Modules[1].SubModules[0].Topics) != 1 {
		t.Errorf("module 2 should carry its submodule topic")
	}
}

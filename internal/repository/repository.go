package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Institution  InstitutionRepository
	Course       CourseRepository
	Syllabus     SyllabusRepository
	Calendar     CalendarRepository
	CalendarItem CalendarItemRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Institution:  NewInstitutionRepo(db),
		Course:       NewCourseRepo(db),
		Syllabus:     NewSyllabusRepo(db),
		Calendar:     NewCalendarRepo(db),
		CalendarItem: NewCalendarItemRepo(db),
	}
}

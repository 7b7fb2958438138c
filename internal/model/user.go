package model

// 用户角色
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// User 用户表 — 对应 users
type User struct {
	UserID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	InstitutionID string `gorm:"type:uuid;not null"                             json:"institution_id"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email         string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"email"`
	PasswordHash  string `gorm:"type:varchar(100);not null"                     json:"-"`
	Role          string `gorm:"type:varchar(20);not null;default:'student'"    json:"role"` // admin | instructor | student
	VersionedModel

	// 关联
	Institution *Institution `gorm:"foreignKey:InstitutionID;references:InstitutionID" json:"institution,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

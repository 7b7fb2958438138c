package model

// Institution 机构表 — 对应 institutions
type Institution struct {
	InstitutionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"institution_id"`
	Name          string `gorm:"type:varchar(150);not null"                     json:"name"`
	Code          string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Address       string `gorm:"type:varchar(300)"                              json:"address,omitempty"`
	ContactEmail  string `gorm:"type:varchar(150)"                              json:"contact_email,omitempty"`
	IsActive      bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Institution) TableName() string { return "institutions" }

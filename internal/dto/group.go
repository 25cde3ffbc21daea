package dto

// ── 小组模块 DTO ──

// CreateGroupRequest 创建小组请求
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateGroupUsersRequest 整体替换小组成员请求
type UpdateGroupUsersRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,dive,uuid"`
}

// GroupResponse 小组简要信息
type GroupResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MembersCount int    `json:"members_count"`
}

// GroupDetailResponse 小组详情（含成员）
type GroupDetailResponse struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Members []UserResponse `json:"members"`
}

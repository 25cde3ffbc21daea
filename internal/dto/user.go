package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Username  string `json:"username"   binding:"required,min=1,max=100"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name"  binding:"required,max=100"`
	Email     string `json:"email"      binding:"required,email"`
	Password  string `json:"password"   binding:"required,min=8"`
	Role      string `json:"role"       binding:"omitempty,oneof=admin member"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	Groups    []GroupResponse `json:"groups,omitempty"`
}

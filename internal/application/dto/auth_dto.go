package dto

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username     string `json:"username" validate:"required,max=255"`
	Password     string `json:"password" validate:"required,max=72"`
	Organization string `json:"organization,omitempty" validate:"max=255"`
}

// LoginRequest 用户登录请求
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the public view of a user returned on login.
type UserDTO struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

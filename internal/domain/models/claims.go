package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the custom JWT claims carried by certverify bearer tokens.
// It embeds the standard jwt.RegisteredClaims and adds the caller's identity and role.
// Claims 代表 certverify 访问令牌中携带的自定义 JWT 声明。
// 它嵌入了标准的 jwt.RegisteredClaims，并添加了调用者的身份和角色。
type Claims struct {
	// UserID is the identifier of the user to whom the token was issued.
	// UserID 是颁发令牌的用户的标识符。
	UserID string `json:"userId"`
	// Username is the login name of the user.
	// Username 是用户的登录名。
	Username string `json:"username"`
	// Role is the user's role at the time the token was issued.
	// Role 是颁发令牌时用户的角色。
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

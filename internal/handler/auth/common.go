package auth

import (
	authmodel "fabula/internal/model/auth"
)

// ProfileInfo 用户身份信息（用于响应，所有API共用）
type ProfileInfo struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Provider string `json:"provider"`
}

// toProfileInfo 将User实体转换为ProfileInfo
func toProfileInfo(user *authmodel.User) ProfileInfo {
	return ProfileInfo{
		Sub:      user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Picture:  user.Picture,
		Provider: user.Provider.String(),
	}
}

package dto

// UpdateProfileRequest 更新个人资料请求，零值字段不更新
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,max=100"`
	Bio       string `json:"bio" binding:"omitempty,max=500"`
}

// UploadAvatarResponse 头像上传响应
type UploadAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

package service

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/model/dto"
	"github.com/qs3c/recipe_go_server/internal/pkg/oss"
	"github.com/qs3c/recipe_go_server/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrOSSNotConfigured   = errors.New("对象存储未配置")
	ErrInvalidImageFormat = errors.New("不支持的图片格式")
)

type UserService struct {
	userRepo  *repository.UserRepository
	ossClient *oss.Client
	cfg       *config.Config
}

func NewUserService(userRepo *repository.UserRepository, ossClient *oss.Client, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:  userRepo,
		ossClient: ossClient,
		cfg:       cfg,
	}
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UpdateProfile 更新用户资料，零值字段不更新
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.FirstName != "" {
		fields["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		fields["last_name"] = req.LastName
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfo(updated), nil
}

// UploadAvatar 上传头像到 OSS 并更新用户记录
func (s *UserService) UploadAvatar(userID int64, filename string, reader io.Reader) (string, error) {
	if s.ossClient == nil {
		return "", ErrOSSNotConfigured
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", ErrInvalidImageFormat
	}

	objectKey := fmt.Sprintf("avatars/%d_%d%s", userID, time.Now().Unix(), ext)
	url, err := s.ossClient.Upload(objectKey, reader)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:             user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		AvatarURL:      user.AvatarURL,
		Bio:            user.Bio,
		EmailVerified:  user.EmailVerified,
		FollowingCount: user.FollowingCount,
		FollowersCount: user.FollowersCount,
	}

	if user.Email != nil {
		info.Email = *user.Email
	}

	return info
}

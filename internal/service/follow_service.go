package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/model"
	"github.com/qs3c/recipe_go_server/internal/model/dto"
	"github.com/qs3c/recipe_go_server/internal/repository"
)

var (
	ErrSelfFollow     = errors.New("不能关注自己")
	ErrFollowNotFound = errors.New("未关注该用户")
)

type FollowService struct {
	db         *gorm.DB
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
	cfg        *config.Config
}

func NewFollowService(
	db *gorm.DB,
	followRepo *repository.FollowRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *FollowService {
	return &FollowService{
		db:         db,
		followRepo: followRepo,
		userRepo:   userRepo,
		cfg:        cfg,
	}
}

// Follow 关注用户。重复关注幂等返回已有关注边；
// 新建边与双方计数（关注数、粉丝数）在同一事务内提交，
// (follower_id, following_id) 唯一键兜底并发重复创建。
func (s *FollowService) Follow(followerID, followingID int64) (*dto.FollowItem, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	for _, id := range []int64{followerID, followingID} {
		exists, err := s.userRepo.ExistsByID(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUserNotFound
		}
	}

	var result *model.Follow

	err := s.db.Transaction(func(tx *gorm.DB) error {
		followRepo := s.followRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		existing, err := followRepo.GetByPair(followerID, followingID)
		if err == nil {
			// 已关注，幂等返回
			result = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		follow := &model.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
		}
		if err := followRepo.Create(follow); err != nil {
			return err
		}
		if err := userRepo.IncrementFollowingCount(followerID); err != nil {
			return err
		}
		if err := userRepo.IncrementFollowersCount(followingID); err != nil {
			return err
		}

		result = follow
		return nil
	})
	if err != nil {
		return nil, err
	}

	return buildFollowItem(result), nil
}

// Unfollow 取消关注。删边与双方计数回退（下限 0）在同一事务内提交。
func (s *FollowService) Unfollow(followerID, followingID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		followRepo := s.followRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		existing, err := followRepo.GetByPair(followerID, followingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFollowNotFound
			}
			return err
		}

		if err := followRepo.Delete(existing.ID); err != nil {
			return err
		}
		if err := userRepo.DecrementFollowingCount(followerID); err != nil {
			return err
		}
		return userRepo.DecrementFollowersCount(followingID)
	})
}

// GetFollowers 获取粉丝列表
func (s *FollowService) GetFollowers(userID int64) ([]*dto.UserInfo, error) {
	users, err := s.followRepo.ListFollowers(userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfos(users), nil
}

// GetFollowing 获取关注列表
func (s *FollowService) GetFollowing(userID int64) ([]*dto.UserInfo, error) {
	users, err := s.followRepo.ListFollowing(userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfos(users), nil
}

// GetFollowStatus 查询 followerID 是否关注了 followingID
func (s *FollowService) GetFollowStatus(followerID, followingID int64) (bool, error) {
	return s.followRepo.Exists(followerID, followingID)
}

// GetFollowersCount 读冗余粉丝计数，不做实时统计
func (s *FollowService) GetFollowersCount(userID int64) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.FollowersCount, nil
}

// GetFollowingCount 读冗余关注计数，不做实时统计
func (s *FollowService) GetFollowingCount(userID int64) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.FollowingCount, nil
}

func buildFollowItem(f *model.Follow) *dto.FollowItem {
	return &dto.FollowItem{
		ID:          f.ID,
		FollowerID:  f.FollowerID,
		FollowingID: f.FollowingID,
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
}

func buildUserInfos(users []*model.User) []*dto.UserInfo {
	infos := make([]*dto.UserInfo, len(users))
	for i, u := range users {
		infos[i] = buildUserInfo(u)
	}
	return infos
}

package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/internal/model"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *FollowRepository) WithTx(tx *gorm.DB) *FollowRepository {
	return &FollowRepository{db: tx}
}

func (r *FollowRepository) Create(follow *model.Follow) error {
	return r.db.Create(follow).Error
}

// GetByPair 获取 follower → following 的关注边
func (r *FollowRepository) GetByPair(followerID, followingID int64) (*model.Follow, error) {
	var follow model.Follow
	err := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *FollowRepository) Delete(id int64) error {
	return r.db.Delete(&model.Follow{}, id).Error
}

func (r *FollowRepository) Exists(followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowers 获取关注 userID 的用户列表
func (r *FollowRepository) ListFollowers(userID int64) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

// ListFollowing 获取 userID 关注的用户列表
func (r *FollowRepository) ListFollowing(userID int64) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

// ListFollowingIDs 获取 userID 关注的用户 ID 列表
func (r *FollowRepository) ListFollowingIDs(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// CountFollowers 实时统计粉丝数（对账用，读路径走冗余字段）
func (r *FollowRepository) CountFollowers(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing 实时统计关注数（对账用，读路径走冗余字段）
func (r *FollowRepository) CountFollowing(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

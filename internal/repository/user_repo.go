package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("github_id = ?", githubID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByVerificationCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("verification_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) ExistsByID(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// IncrementFollowingCount 增加关注数
func (r *UserRepository) IncrementFollowingCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("following_count", gorm.Expr("following_count + 1")).Error
}

// DecrementFollowingCount 减少关注数，下限为 0
func (r *UserRepository) DecrementFollowingCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("following_count", gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")).Error
}

// IncrementFollowersCount 增加粉丝数
func (r *UserRepository) IncrementFollowersCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("followers_count", gorm.Expr("followers_count + 1")).Error
}

// DecrementFollowersCount 减少粉丝数，下限为 0
func (r *UserRepository) DecrementFollowersCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("followers_count", gorm.Expr("CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END")).Error
}

// SetFollowCounts 覆写关注计数（对账用）
func (r *UserRepository) SetFollowCounts(id int64, following, followers int) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"following_count": following,
		"followers_count": followers,
	}).Error
}

// ListIDs 获取全部用户 ID
func (r *UserRepository) ListIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.User{}).Pluck("id", &ids).Error
	return ids, err
}

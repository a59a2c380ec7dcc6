package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/internal/model"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *VoteRepository) WithTx(tx *gorm.DB) *VoteRepository {
	return &VoteRepository{db: tx}
}

func (r *VoteRepository) Create(vote *model.Vote) error {
	return r.db.Create(vote).Error
}

func (r *VoteRepository) GetByID(id int64) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.Where("id = ?", id).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// GetByPostAndUser 获取用户对帖子的投票，一人一帖最多一行
func (r *VoteRepository) GetByPostAndUser(postID, userID int64) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// UpdateType 改票：更新已有行的票型而非新增
func (r *VoteRepository) UpdateType(id int64, voteType string) error {
	return r.db.Model(&model.Vote{}).Where("id = ?", id).Update("vote_type", voteType).Error
}

func (r *VoteRepository) Delete(id int64) error {
	return r.db.Delete(&model.Vote{}, id).Error
}

func (r *VoteRepository) ListByPost(postID int64) ([]*model.Vote, error) {
	var votes []*model.Vote
	err := r.db.Where("post_id = ?", postID).Find(&votes).Error
	return votes, err
}

func (r *VoteRepository) ListByUser(userID int64) ([]*model.Vote, error) {
	var votes []*model.Vote
	err := r.db.Where("user_id = ?", userID).Find(&votes).Error
	return votes, err
}

// CountByPostAndType 统计帖子某票型票数（对账用）
func (r *VoteRepository) CountByPostAndType(postID int64, voteType string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Vote{}).
		Where("post_id = ? AND vote_type = ?", postID, voteType).
		Count(&count).Error
	return count, err
}

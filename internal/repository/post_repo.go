package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) GetByIDWithUser(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("User").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Update(post *model.Post) error {
	return r.db.Save(post).Error
}

func (r *PostRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PostRepository) Delete(id int64) error {
	return r.db.Delete(&model.Post{}, id).Error
}

func (r *PostRepository) ExistsByID(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListAll 获取帖子列表（按发布时间倒序）
func (r *PostRepository) ListAll(page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.Model(&model.Post{}).Preload("User")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Feed 全站信息流，时间优先、票数次之
func (r *PostRepository) Feed(limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Preload("User").
		Order("created_at DESC").Order("upvote_count DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// FeedByAuthors 指定作者集合的信息流
func (r *PostRepository) FeedByAuthors(authorIDs []int64, limit, offset int) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return []*model.Post{}, nil
	}

	var posts []*model.Post
	err := r.db.Preload("User").
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// ListIDs 获取全部帖子 ID（对账用）
func (r *PostRepository) ListIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Post{}).Pluck("id", &ids).Error
	return ids, err
}

// IncrementVoteCount 按票型调整票数，负增量下限为 0
func (r *PostRepository) IncrementVoteCount(id int64, voteType string, delta int) error {
	column := "upvote_count"
	if voteType == model.VoteTypeDownvote {
		column = "downvote_count"
	}

	if delta >= 0 {
		return r.db.Model(&model.Post{}).Where("id = ?", id).
			Update(column, gorm.Expr(column+" + ?", delta)).Error
	}
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		Update(column, gorm.Expr("CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", -delta, -delta)).Error
}

// IncrementCommentCount 调整评论数，负增量下限为 0
func (r *PostRepository) IncrementCommentCount(id int64, delta int) error {
	if delta >= 0 {
		return r.db.Model(&model.Post{}).Where("id = ?", id).
			Update("comment_count", gorm.Expr("comment_count + ?", delta)).Error
	}
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		Update("comment_count", gorm.Expr("CASE WHEN comment_count >= ? THEN comment_count - ? ELSE 0 END", -delta, -delta)).Error
}

// SetCounters 覆写计数字段（对账用）
func (r *PostRepository) SetCounters(id int64, upvotes, downvotes, comments int) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"upvote_count":   upvotes,
		"downvote_count": downvotes,
		"comment_count":  comments,
	}).Error
}

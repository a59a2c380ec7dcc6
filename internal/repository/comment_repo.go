package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论（含软删行）
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByIDWithUser 获取评论及用户信息
func (r *CommentRepository) GetByIDWithUser(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update 保存评论内容变更
func (r *CommentRepository) Update(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

// SoftDelete 软删除，行保留以维持子评论的引用
func (r *CommentRepository) SoftDelete(id int64) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", id).Update("is_deleted", true).Error
}

// ListByPost 获取帖子全部未删评论，created_at 升序
func (r *CommentRepository) ListByPost(postID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// ListTopLevelByPost 获取帖子顶层未删评论，created_at 升序
func (r *CommentRepository) ListTopLevelByPost(postID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("post_id = ? AND parent_id IS NULL AND is_deleted = ?", postID, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// ListRepliesByParentID 获取直接子评论（一层），created_at 升序
func (r *CommentRepository) ListRepliesByParentID(parentID int64) ([]*model.Comment, error) {
	var replies []*model.Comment
	err := r.db.Preload("User").
		Where("parent_id = ? AND is_deleted = ?", parentID, false).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// CountActiveByPost 统计帖子未删评论数（对账用）
func (r *CommentRepository) CountActiveByPost(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Count(&count).Error
	return count, err
}

// CountSoftDeletedBefore 统计早于 before 软删、且没有未删子评论引用的行数
func (r *CommentRepository) CountSoftDeletedBefore(before time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("is_deleted = ? AND updated_at < ?", true, before).
		Where("id NOT IN (?)",
			r.db.Model(&model.Comment{}).Select("parent_id").
				Where("parent_id IS NOT NULL AND is_deleted = ?", false)).
		Count(&count).Error
	return count, err
}

// PurgeSoftDeletedBefore 物理清除早于 before 软删、且没有未删子评论引用的行
func (r *CommentRepository) PurgeSoftDeletedBefore(before time.Time) (int64, error) {
	result := r.db.Where("is_deleted = ? AND updated_at < ?", true, before).
		Where("id NOT IN (?)",
			r.db.Model(&model.Comment{}).Select("parent_id").
				Where("parent_id IS NOT NULL AND is_deleted = ?", false)).
		Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

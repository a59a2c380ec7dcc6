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
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentPermission = errors.New("无权操作此评论")
	ErrParentNotFound    = errors.New("父评论不存在")
	ErrParentNotInPost   = errors.New("父评论不属于该帖子")
)

// maxReplyDepth 递归物化回复树的最大层数，超出层数的节点回复列表置空
const maxReplyDepth = 3

type CommentService struct {
	db          *gorm.DB
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	cfg         *config.Config
}

func NewCommentService(
	db *gorm.DB,
	commentRepo *repository.CommentRepository,
	postRepo *repository.PostRepository,
	cfg *config.Config,
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cfg:         cfg,
	}
}

// Create 创建评论。父评论必须存在且与新评论属于同一帖子；
// 评论行与帖子 comment_count 在同一事务内落盘。
func (s *CommentService) Create(userID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	var created *model.Comment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		commentRepo := s.commentRepo.WithTx(tx)
		postRepo := s.postRepo.WithTx(tx)

		exists, err := postRepo.ExistsByID(req.PostID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPostNotFound
		}

		if req.ParentID != nil {
			parent, err := commentRepo.GetByID(*req.ParentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrParentNotFound
				}
				return err
			}
			if parent.IsDeleted {
				return ErrParentNotFound
			}
			if parent.PostID != req.PostID {
				return ErrParentNotInPost
			}
		}

		comment := &model.Comment{
			PostID:   req.PostID,
			UserID:   userID,
			ParentID: req.ParentID,
			Content:  req.Content,
		}
		if err := commentRepo.Create(comment); err != nil {
			return err
		}

		if err := postRepo.IncrementCommentCount(req.PostID, 1); err != nil {
			return err
		}

		created = comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务外回查用户信息，失败不影响已提交的评论
	full, err := s.commentRepo.GetByIDWithUser(created.ID)
	if err != nil {
		return s.buildCommentItem(created), nil
	}
	return s.buildCommentItem(full), nil
}

// ListByPost 获取帖子的评论树。单次查询取出全部未删评论，
// 两遍扫描在内存中重建树：先建 id→节点索引，再把子节点挂到父节点。
// 父评论已软删的回复提升为顶层展示。
func (s *CommentService) ListByPost(postID int64, includeReplies bool) ([]*dto.CommentItem, error) {
	exists, err := s.postRepo.ExistsByID(postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPostNotFound
	}

	if !includeReplies {
		comments, err := s.commentRepo.ListTopLevelByPost(postID)
		if err != nil {
			return nil, err
		}
		items := make([]*dto.CommentItem, len(comments))
		for i, c := range comments {
			items[i] = s.buildCommentItem(c)
		}
		return items, nil
	}

	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, err
	}

	// 第一遍：建索引。行按 created_at 升序取出，后续追加保持同级顺序
	nodes := make(map[int64]*dto.CommentItem, len(comments))
	for _, c := range comments {
		nodes[c.ID] = s.buildCommentItem(c)
	}

	// 第二遍：挂链。父节点不在索引中（被软删或缺失）的回复提升为顶层
	roots := make([]*dto.CommentItem, 0, len(comments))
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots, nil
}

// GetReplies 获取评论的直接回复（一层，不递归）
func (s *CommentService) GetReplies(commentID int64) ([]*dto.CommentItem, error) {
	if _, err := s.getActiveComment(commentID); err != nil {
		return nil, err
	}

	replies, err := s.commentRepo.ListRepliesByParentID(commentID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CommentItem, len(replies))
	for i, r := range replies {
		items[i] = s.buildCommentItem(r)
	}
	return items, nil
}

// GetReplyTree 以逐层查询递归物化评论的回复树，深度上限 maxReplyDepth。
// 上限不可按请求调整，用于限制单请求的查询扇出。
func (s *CommentService) GetReplyTree(commentID int64) (*dto.CommentItem, error) {
	comment, err := s.getActiveComment(commentID)
	if err != nil {
		return nil, err
	}

	root := s.buildCommentItem(comment)
	if err := s.loadReplies(root, 0); err != nil {
		return nil, err
	}
	return root, nil
}

func (s *CommentService) loadReplies(node *dto.CommentItem, depth int) error {
	if depth >= maxReplyDepth {
		return nil
	}

	replies, err := s.commentRepo.ListRepliesByParentID(node.ID)
	if err != nil {
		return err
	}

	for _, r := range replies {
		child := s.buildCommentItem(r)
		if err := s.loadReplies(child, depth+1); err != nil {
			return err
		}
		node.Replies = append(node.Replies, child)
	}
	return nil
}

// Edit 编辑评论内容，仅作者可操作。空内容不改动任何字段。
func (s *CommentService) Edit(userID, commentID int64, req *dto.EditCommentRequest) (*dto.CommentItem, error) {
	comment, err := s.getActiveComment(commentID)
	if err != nil {
		return nil, err
	}
	if !isOwner(comment.UserID, userID) {
		return nil, ErrCommentPermission
	}

	if req.Content != "" {
		comment.Content = req.Content
		if err := s.commentRepo.Update(comment); err != nil {
			return nil, err
		}
	}

	full, err := s.commentRepo.GetByIDWithUser(commentID)
	if err != nil {
		return s.buildCommentItem(comment), nil
	}
	return s.buildCommentItem(full), nil
}

// Delete 软删除评论，仅作者可操作。不级联子评论，
// 帖子 comment_count 与删除标记在同一事务内更新。
func (s *CommentService) Delete(userID, commentID int64) error {
	comment, err := s.getActiveComment(commentID)
	if err != nil {
		return err
	}
	if !isOwner(comment.UserID, userID) {
		return ErrCommentPermission
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.WithTx(tx).SoftDelete(commentID); err != nil {
			return err
		}
		return s.postRepo.WithTx(tx).IncrementCommentCount(comment.PostID, -1)
	})
}

// getActiveComment 获取未删评论，已软删视作不存在
func (s *CommentService) getActiveComment(commentID int64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.IsDeleted {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *CommentService) buildCommentItem(c *model.Comment) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}

	if c.User != nil {
		item.User = &dto.CommentUser{
			ID:        c.User.ID,
			Username:  c.User.Username,
			AvatarURL: c.User.AvatarURL,
		}
	}

	return item
}

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
	ErrPostNotFound   = errors.New("帖子不存在")
	ErrPostPermission = errors.New("无权操作此帖子")
)

type PostService struct {
	postRepo   *repository.PostRepository
	followRepo *repository.FollowRepository
	cfg        *config.Config
}

func NewPostService(
	postRepo *repository.PostRepository,
	followRepo *repository.FollowRepository,
	cfg *config.Config,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		followRepo: followRepo,
		cfg:        cfg,
	}
}

// Create 发布帖子
func (s *PostService) Create(userID int64, req *dto.CreatePostRequest) (*dto.PostItem, error) {
	post := &model.Post{
		UserID:      userID,
		Title:       req.Title,
		ContentType: req.ContentType,
		Content:     req.Content,
		CoverURL:    req.CoverURL,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return buildPostItem(post), nil
}

// GetByID 获取帖子详情
func (s *PostService) GetByID(postID int64) (*dto.PostItem, error) {
	post, err := s.postRepo.GetByIDWithUser(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return buildPostItem(post), nil
}

// Edit 编辑帖子，仅作者可操作，零值字段不更新
func (s *PostService) Edit(userID, postID int64, req *dto.EditPostRequest) (*dto.PostItem, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if !isOwner(post.UserID, userID) {
		return nil, ErrPostPermission
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.ContentType != "" {
		post.ContentType = req.ContentType
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.CoverURL != "" {
		post.CoverURL = req.CoverURL
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return buildPostItem(post), nil
}

// Delete 删除帖子，仅作者可操作
func (s *PostService) Delete(userID, postID int64) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if !isOwner(post.UserID, userID) {
		return ErrPostPermission
	}
	return s.postRepo.Delete(postID)
}

// ListAll 分页获取帖子列表
func (s *PostService) ListAll(page, pageSize int) ([]*dto.PostItem, int64, error) {
	posts, total, err := s.postRepo.ListAll(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return buildPostItems(posts), total, nil
}

// Feed 全站信息流，created_at 倒序、同刻按票数
func (s *PostService) Feed(limit, offset int) ([]*dto.PostItem, error) {
	posts, err := s.postRepo.Feed(limit, offset)
	if err != nil {
		return nil, err
	}
	return buildPostItems(posts), nil
}

// FollowingFeed 关注信息流：仅我关注的作者的帖子
func (s *PostService) FollowingFeed(userID int64, limit, offset int) ([]*dto.PostItem, error) {
	authorIDs, err := s.followRepo.ListFollowingIDs(userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.FeedByAuthors(authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}
	return buildPostItems(posts), nil
}

func buildPostItem(p *model.Post) *dto.PostItem {
	item := &dto.PostItem{
		ID:            p.ID,
		Title:         p.Title,
		ContentType:   p.ContentType,
		Content:       p.Content,
		CoverURL:      p.CoverURL,
		UpvoteCount:   p.UpvoteCount,
		DownvoteCount: p.DownvoteCount,
		CommentCount:  p.CommentCount,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}

	if p.User != nil {
		item.User = &dto.CommentUser{
			ID:        p.User.ID,
			Username:  p.User.Username,
			AvatarURL: p.User.AvatarURL,
		}
	}

	return item
}

func buildPostItems(posts []*model.Post) []*dto.PostItem {
	items := make([]*dto.PostItem, len(posts))
	for i, p := range posts {
		items[i] = buildPostItem(p)
	}
	return items
}

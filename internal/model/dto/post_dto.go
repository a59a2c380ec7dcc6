package dto

// CreatePostRequest 发布帖子请求
type CreatePostRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=recipe tip other"`
	Content     string `json:"content" binding:"required,min=1"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500"`
}

// EditPostRequest 编辑帖子请求，零值字段不更新
type EditPostRequest struct {
	Title       string `json:"title" binding:"omitempty,min=1,max=255"`
	ContentType string `json:"content_type" binding:"omitempty,oneof=recipe tip other"`
	Content     string `json:"content" binding:"omitempty,min=1"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500"`
}

// PostItem 帖子项
type PostItem struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	ContentType   string       `json:"content_type"`
	Content       string       `json:"content"`
	CoverURL      string       `json:"cover_url,omitempty"`
	User          *CommentUser `json:"user,omitempty"`
	UpvoteCount   int          `json:"upvote_count"`
	DownvoteCount int          `json:"downvote_count"`
	CommentCount  int          `json:"comment_count"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}

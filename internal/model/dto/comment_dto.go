package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	PostID   int64  `json:"post_id" binding:"required"`
	Content  string `json:"content" binding:"required,min=10,max=10000"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// EditCommentRequest 编辑评论请求
type EditCommentRequest struct {
	Content string `json:"content" binding:"omitempty,min=10,max=10000"`
}

// CommentItem 评论项，Replies 为按 created_at 升序排列的子树
type CommentItem struct {
	ID        int64          `json:"id"`
	PostID    int64          `json:"post_id"`
	ParentID  *int64         `json:"parent_id"`
	User      *CommentUser   `json:"user"`
	Content   string         `json:"content"`
	Replies   []*CommentItem `json:"replies,omitempty"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// CommentUser 评论用户信息
type CommentUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

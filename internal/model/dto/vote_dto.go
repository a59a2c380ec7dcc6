package dto

// CastVoteRequest 投票请求
type CastVoteRequest struct {
	PostID   int64  `json:"post_id" binding:"required"`
	VoteType string `json:"vote_type" binding:"required,oneof=upvote downvote"`
}

// VoteItem 投票项
type VoteItem struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post_id"`
	UserID    int64  `json:"user_id"`
	VoteType  string `json:"vote_type"`
	CreatedAt string `json:"created_at"`
}

// VoteCounts 帖子当前票数
type VoteCounts struct {
	UpvoteCount   int `json:"upvote_count"`
	DownvoteCount int `json:"downvote_count"`
}

package model

import (
	"time"
)

// 投票类型
const (
	VoteTypeUpvote   = "upvote"
	VoteTypeDownvote = "downvote"
)

// Vote 一票一行，(post_id, user_id) 复合唯一键保证每人每帖最多一票
type Vote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PostID    int64     `gorm:"not null;index:idx_vote_post_user,unique" json:"post_id"`
	UserID    int64     `gorm:"not null;index:idx_vote_post_user,unique;index" json:"user_id"`
	VoteType  string    `gorm:"size:20;not null" json:"vote_type"` // upvote, downvote
	CreatedAt time.Time `json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}

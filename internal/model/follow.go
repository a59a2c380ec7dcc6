package model

import (
	"time"
)

// Follow 关注关系（follower 关注 following）
// (follower_id, following_id) 复合唯一键避免重复关注
type Follow struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	FollowerID  int64     `gorm:"not null;index:idx_follow_pair,unique;index" json:"follower_id"`
	FollowingID int64     `gorm:"not null;index:idx_follow_pair,unique;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}

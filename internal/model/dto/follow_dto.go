package dto

// FollowItem 关注关系项
type FollowItem struct {
	ID          int64  `json:"id"`
	FollowerID  int64  `json:"follower_id"`
	FollowingID int64  `json:"following_id"`
	CreatedAt   string `json:"created_at"`
}

// FollowStatusResponse 关注状态
type FollowStatusResponse struct {
	Following bool `json:"following"`
}

// FollowCountResponse 关注计数
type FollowCountResponse struct {
	Count int `json:"count"`
}

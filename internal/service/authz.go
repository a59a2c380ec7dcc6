package service

// isOwner 统一的属主判定，编辑/删除一律先过这里
func isOwner(resourceUserID, principalID int64) bool {
	return resourceUserID == principalID
}

package service

const forbiddenMessage = "无权访问该资源"

// AssertOwner 校验当前用户是否为资源所有者。
// 任一 ID 为零视为缺少归属信息，同样拒绝。
func AssertOwner(actingUserID, ownerUserID uint) error {
	if actingUserID == 0 || ownerUserID == 0 || actingUserID != ownerUserID {
		return NewForbiddenError(forbiddenMessage)
	}
	return nil
}

// Forbidden 返回统一的无权访问错误，不泄露资源细节
func Forbidden() error {
	return NewForbiddenError(forbiddenMessage)
}

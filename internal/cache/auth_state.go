package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tijara-next/internal/models"
)

// AdminAuthState 管理员鉴权状态缓存
// 用于在中间件中避免每次请求都查库校验 Token 版本。
type AdminAuthState struct {
	AdminID            uint       `json:"admin_id"`
	Username           string     `json:"username"`
	TokenVersion       uint64     `json:"token_version"`
	TokenInvalidBefore *time.Time `json:"token_invalid_before,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

const authStateCacheTTL = 10 * time.Minute

// BuildAdminAuthState 从管理员记录构建鉴权状态
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:            admin.ID,
		Username:           admin.Username,
		TokenVersion:       admin.TokenVersion,
		TokenInvalidBefore: admin.TokenInvalidBefore,
		UpdatedAt:          time.Now(),
	}
}

func adminAuthStateKey(adminID uint) string {
	return fmt.Sprintf("auth:admin:%d", adminID)
}

// GetAdminAuthState 读取管理员鉴权状态缓存
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	if !Enabled() {
		return nil, false, nil
	}
	var state AdminAuthState
	found, err := GetJSON(ctx, adminAuthStateKey(adminID), &state)
	if err != nil || !found {
		return nil, false, err
	}
	return &state, true, nil
}

// SetAdminAuthState 写入管理员鉴权状态缓存
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || !Enabled() {
		return nil
	}
	return SetJSON(ctx, adminAuthStateKey(state.AdminID), state, authStateCacheTTL)
}

// DelAdminAuthState 删除管理员鉴权状态缓存
func DelAdminAuthState(ctx context.Context, adminID uint) error {
	if !Enabled() {
		return nil
	}
	return Del(ctx, adminAuthStateKey(adminID))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tijara-next/internal/config"
	"github.com/tijara-next/internal/models"
	"github.com/tijara-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewAuthService(repository.NewAdminRepository(db), config.JWTConfig{
		SecretKey:   "test-secret-key-for-unit-tests-only",
		ExpireHours: 1,
	})
	return svc, db
}

func createTestAdmin(t *testing.T, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestAuthServiceLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, db, "admin", "correct-password")
	ctx := context.Background()

	token, admin, err := svc.Login(ctx, "admin", "correct-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token issued")
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("expected last_login_at updated")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := svc.VerifyClaims(ctx, claims); err != nil {
		t.Fatalf("verify claims failed: %v", err)
	}
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, db, "admin", "correct-password")
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "admin", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "correct-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got: %v", err)
	}
	if _, _, err := svc.Login(ctx, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for empty input, got: %v", err)
	}
}

func TestAuthServiceParseJWTRejectsTampered(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, db, "admin", "correct-password")

	token, _, err := svc.Login(context.Background(), "admin", "correct-password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	other := NewAuthService(nil, config.JWTConfig{SecretKey: "another-secret"})
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("expected parse failure for tampered token")
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	admin := createTestAdmin(t, db, "admin", "old-password-1")
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "admin", "old-password-1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, admin.ID, "old-password-1", "short"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected invalid password for short input, got: %v", err)
	}
	if err := svc.ChangePassword(ctx, admin.ID, "wrong-old", "new-password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong old password, got: %v", err)
	}

	if err := svc.ChangePassword(ctx, admin.ID, "old-password-1", "new-password-1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	// 旧密码失效，新密码可登录
	if _, _, err := svc.Login(ctx, "admin", "old-password-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got: %v", err)
	}
	if _, _, err := svc.Login(ctx, "admin", "new-password-1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	// 改密前签发的 Token 全量失效
	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse old token failed: %v", err)
	}
	if _, err := svc.VerifyClaims(ctx, claims); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old token revoked, got: %v", err)
	}
}

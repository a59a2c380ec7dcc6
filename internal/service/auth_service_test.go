package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/recipe_go_server/config"
	"github.com/qs3c/recipe_go_server/internal/pkg/blacklist"
	"github.com/qs3c/recipe_go_server/internal/pkg/jwt"
	"github.com/qs3c/recipe_go_server/internal/repository"
	"github.com/qs3c/recipe_go_server/internal/testutil"

	"github.com/qs3c/recipe_go_server/internal/model/dto"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{}
	cfg.JWT.Secret = "auth-service-test-secret"
	cfg.JWT.AccessExpireHours = 2
	cfg.JWT.RefreshExpireHours = 168

	userRepo := repository.NewUserRepository(db)
	return NewAuthService(userRepo, blacklist.New(client), nil, cfg), db
}

func TestAuthService_Register_Success(t *testing.T) {
	service, db := setupAuthService(t)

	req := &dto.RegisterRequest{
		Username: "newcook",
		Email:    "newcook@example.com",
		Password: "secret-password",
	}

	resp, err := service.Register(req)
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	user, err := repository.NewUserRepository(db).GetByID(resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "newcook", user.Username)
	assert.False(t, user.EmailVerified)
	require.NotNil(t, user.PasswordHash)
	// 密码只存哈希
	assert.NotEqual(t, "secret-password", *user.PasswordHash)
	assert.NotNil(t, user.VerificationCode)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, db := setupAuthService(t)

	testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))

	req := &dto.RegisterRequest{
		Username: "someone",
		Email:    "taken@example.com",
		Password: "secret-password",
	}

	_, err := service.Register(req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, db := setupAuthService(t)

	testutil.TestUser(t, db, testutil.WithUsername("takenname"))

	req := &dto.RegisterRequest{
		Username: "takenname",
		Email:    "fresh@example.com",
		Password: "secret-password",
	}

	_, err := service.Register(req)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Username: "loginuser",
		Email:    "login@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	// 先走验证码完成邮箱验证
	verifyResp, err := service.VerifyEmail(verificationCodeFor(t, service, "login@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, verifyResp.AccessToken)

	resp, err := service.Login(&dto.LoginRequest{
		Email:    "login@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, resp.AccessToken, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "loginuser", resp.User.Username)
}

func verificationCodeFor(t *testing.T, service *AuthService, email string) string {
	t.Helper()

	user, err := service.userRepo.GetByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, user.VerificationCode)
	return *user.VerificationCode
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Username: "wrongpw",
		Email:    "wrongpw@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = service.VerifyEmail(verificationCodeFor(t, service, "wrongpw@example.com"))
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "wrongpw@example.com",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_EmailNotVerified(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Username: "unverified",
		Email:    "unverified@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "unverified@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_VerifyEmail_InvalidCode(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.VerifyEmail("no-such-code")
	assert.ErrorIs(t, err, ErrInvalidVerifyCode)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Username: "refresher",
		Email:    "refresher@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	resp, err := service.VerifyEmail(verificationCodeFor(t, service, "refresher@example.com"))
	require.NoError(t, err)

	refreshed, err := service.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Username: "accessonly",
		Email:    "accessonly@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	resp, err := service.VerifyEmail(verificationCodeFor(t, service, "accessonly@example.com"))
	require.NoError(t, err)

	// 访问令牌不能用于刷新
	_, err = service.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	service, _ := setupAuthService(t)

	_, err := service.Register(&dto.RegisterRequest{
		Username: "leaver",
		Email:    "leaver@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	resp, err := service.VerifyEmail(verificationCodeFor(t, service, "leaver@example.com"))
	require.NoError(t, err)

	claims, err := jwt.ParseToken(resp.RefreshToken, "auth-service-test-secret")
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), claims))

	// 吊销后的刷新令牌不能再换新令牌
	_, err = service.Refresh(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

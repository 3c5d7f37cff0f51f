package auth

import (
	"testing"
	"time"

	"github.com/arman-dehghani/campushub/config"
	"github.com/arman-dehghani/campushub/services/jwt"
	"github.com/arman-dehghani/campushub/services/tokenstore"
	"github.com/arman-dehghani/campushub/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB, *config.Config) {
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &Role{}, &User{}, &tokenstore.TokenRecord{})
	jwtSvc := jwt.NewService(cfg, nil)
	store := tokenstore.NewService(db, nil)
	svc := NewService(cfg, db, jwtSvc, store, nil)
	return svc, db, cfg
}

func registerAlice(t *testing.T, svc *Service) *User {
	user, err := svc.Register(RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Secur3Pass",
	})
	require.NoError(t, err)
	return user
}

func TestService_HashAndVerifyPassword(t *testing.T) {
	svc, _, _ := setupService(t)

	t.Run("round trip", func(t *testing.T) {
		hash, err := svc.HashPassword("Secur3Pass")
		require.NoError(t, err)
		assert.NotEqual(t, "Secur3Pass", hash)
		assert.NoError(t, svc.VerifyPassword(hash, "Secur3Pass"))
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := svc.HashPassword("Secur3Pass")
		require.NoError(t, err)
		assert.ErrorIs(t, svc.VerifyPassword(hash, "Wr0ngPass!"), ErrInvalidCredentials)
	})

	t.Run("distinct hashes per call", func(t *testing.T) {
		h1, err := svc.HashPassword("Secur3Pass")
		require.NoError(t, err)
		h2, err := svc.HashPassword("Secur3Pass")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("malformed digest is a format error, never a match", func(t *testing.T) {
		err := svc.VerifyPassword("not-a-bcrypt-digest", "Secur3Pass")
		assert.ErrorIs(t, err, ErrHashFormat)
	})
}

func TestService_ValidatePassword(t *testing.T) {
	svc, _, _ := setupService(t)

	assert.NoError(t, svc.ValidatePassword("Secur3Pass"))
	assert.Error(t, svc.ValidatePassword("Sh0rt"))
	assert.Error(t, svc.ValidatePassword("alllowercase1"))
	assert.Error(t, svc.ValidatePassword("NoNumbersHere"))
}

func TestService_Register(t *testing.T) {
	svc, db, _ := setupService(t)

	user := registerAlice(t, svc)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleUser, user.RoleID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Secur3Pass", user.PasswordHash)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := svc.Register(RegisterRequest{
			Username: "alice",
			Email:    "other@example.com",
			Password: "Secur3Pass",
		})
		assert.ErrorIs(t, err, ErrUsernameTaken)

		var count int64
		require.NoError(t, db.Model(&User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		_, err := svc.Register(RegisterRequest{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "weak",
		})
		assert.Error(t, err)
	})

	t.Run("welcome mail sent when collaborator wired", func(t *testing.T) {
		mailMock := &testutils.MockMailService{}
		mailMock.On("Send", "carol@example.com", mock.Anything, mock.Anything).Return(nil)
		svc.SetMailService(mailMock)

		_, err := svc.Register(RegisterRequest{
			Username: "carol",
			Email:    "carol@example.com",
			Password: "Secur3Pass",
		})
		require.NoError(t, err)
		mailMock.AssertExpectations(t)
	})
}

func TestService_Login(t *testing.T) {
	svc, db, _ := setupService(t)
	user := registerAlice(t, svc)

	t.Run("correct password issues pair and records session", func(t *testing.T) {
		result, err := svc.Login("alice", "Secur3Pass",
			"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0", "203.0.113.7")
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.Pair.AccessToken)
		assert.NotEmpty(t, result.Pair.RefreshToken)
		assert.True(t, result.Pair.AccessExpiresAt.Before(result.Pair.RefreshExpiresAt))
		require.NotNil(t, result.User.LastLogin)

		var record tokenstore.TokenRecord
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&record).Error)
		assert.Equal(t, result.Pair.RefreshToken, record.RefreshToken)
		assert.Equal(t, "203.0.113.7", record.IPAddress)
		assert.Contains(t, record.DeviceInfo, "Firefox")
	})

	t.Run("wrong password creates no record", func(t *testing.T) {
		var before int64
		require.NoError(t, db.Model(&tokenstore.TokenRecord{}).Count(&before).Error)

		_, err := svc.Login("alice", "WrongPass1", "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		var after int64
		require.NoError(t, db.Model(&tokenstore.TokenRecord{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login("nobody", "Secur3Pass", "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(user.ID))
		_, err := svc.Login("alice", "Secur3Pass", "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_RefreshAndRevoke(t *testing.T) {
	svc, _, _ := setupService(t)
	registerAlice(t, svc)

	first, err := svc.Login("alice", "Secur3Pass", "", "198.51.100.1")
	require.NoError(t, err)
	second, err := svc.Login("alice", "Secur3Pass", "", "198.51.100.2")
	require.NoError(t, err)

	t.Run("valid refresh token mints a new access token", func(t *testing.T) {
		result, err := svc.Refresh(first.Pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, first.User.ID, result.UserID)
		assert.Equal(t, first.User.RoleID, result.RoleID)

		claims, err := jwt.NewService(testutils.GetTestConfig(), nil).
			ValidateToken(result.AccessToken, jwt.KindAccess)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, claims.UserID)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		_, err := svc.Refresh(first.Pair.AccessToken)
		assert.ErrorIs(t, err, jwt.ErrWrongTokenKind)
	})

	t.Run("revoked session can no longer refresh, siblings survive", func(t *testing.T) {
		require.NoError(t, svc.Logout(first.Pair.RefreshToken))

		_, err := svc.Refresh(first.Pair.RefreshToken)
		assert.ErrorIs(t, err, tokenstore.ErrTokenRevoked)

		_, err = svc.Refresh(second.Pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		assert.NoError(t, svc.Logout(first.Pair.RefreshToken))
		assert.NoError(t, svc.Logout(first.Pair.RefreshToken))
	})

	t.Run("sessions lists only active records", func(t *testing.T) {
		records, err := svc.Sessions(first.User.ID)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "198.51.100.2", records[0].IPAddress)
	})
}

func TestService_ChangePassword(t *testing.T) {
	svc, _, _ := setupService(t)
	user := registerAlice(t, svc)

	t.Run("wrong current password rejected", func(t *testing.T) {
		err := svc.ChangePassword(user.ID, "WrongPass1", "NewSecur3Pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("valid change re-hashes", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(user.ID, "Secur3Pass", "NewSecur3Pass"))

		_, err := svc.Login("alice", "Secur3Pass", "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login("alice", "NewSecur3Pass", "", "")
		assert.NoError(t, err)
	})
}

func TestService_ElevateRole(t *testing.T) {
	svc, _, cfg := setupService(t)
	cfg.Auth.SuperAdminUsername = "root"
	cfg.Auth.SuperAdminPassword = "RootSecur3Pass"
	require.NoError(t, svc.SeedReferenceData())

	user := registerAlice(t, svc)

	require.NoError(t, svc.ElevateRole(user.ID, RoleAdmin))
	updated, err := svc.FindUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.RoleID)

	t.Run("unknown role rejected", func(t *testing.T) {
		assert.Error(t, svc.ElevateRole(user.ID, 99))
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.ElevateRole(9999, RoleAdmin), ErrUserNotFound)
	})
}

func TestService_SeedReferenceData(t *testing.T) {
	svc, db, cfg := setupService(t)
	cfg.Auth.SuperAdminUsername = "root"
	cfg.Auth.SuperAdminPassword = "RootSecur3Pass"

	require.NoError(t, svc.SeedReferenceData())

	var roles []Role
	require.NoError(t, db.Order("id ASC").Find(&roles).Error)
	require.Len(t, roles, 3)
	assert.Equal(t, "user", roles[0].Name)
	assert.Equal(t, "superadmin", roles[2].Name)

	super, err := svc.FindUserByUsername("root")
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, super.RoleID)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, svc.SeedReferenceData())

		var userCount int64
		require.NoError(t, db.Model(&User{}).Where("role_id = ?", RoleSuperAdmin).Count(&userCount).Error)
		assert.Equal(t, int64(1), userCount)
	})

	t.Run("seeded super admin can log in", func(t *testing.T) {
		result, err := svc.Login("root", "RootSecur3Pass", "", "")
		require.NoError(t, err)
		assert.Equal(t, RoleSuperAdmin, result.User.RoleID)
	})
}

func TestService_ExpiredRefreshToken(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.JWT.AccessExpiry = -2 * time.Hour
	cfg.JWT.RefreshExpiry = -1 * time.Hour
	db := testutils.SetupTestDB(t, &Role{}, &User{}, &tokenstore.TokenRecord{})
	jwtSvc := jwt.NewService(cfg, nil)
	store := tokenstore.NewService(db, nil)
	svc := NewService(cfg, db, jwtSvc, store, nil)

	registerAlice(t, svc)
	result, err := svc.Login("alice", "Secur3Pass", "", "")
	require.NoError(t, err)

	_, err = svc.Refresh(result.Pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

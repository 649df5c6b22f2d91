package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/mealtracker/backend/internal/models"
	"github.com/pageza/mealtracker/backend/internal/service"
	"github.com/pageza/mealtracker/backend/internal/testhelpers"
	"github.com/pageza/mealtracker/backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, &types.RegisterRequest{
		Name:     "Ana",
		Email:    "  Ana@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	loggedIn, token, err := svc.Login(ctx, &types.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewAuthService(db, "test-secret")
	req := &types.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"}

	_, _, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegisterLosesRaceForEmail(t *testing.T) {
	db := testhelpers.SetupSQLite(t)

	// Another registration commits the same email between the existence
	// check and the insert.
	inserted := false
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_signup", func(tx *gorm.DB) {
		if inserted || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "users" {
			return
		}
		inserted = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
			uuid.NewString(), "Other", "ana@example.com", "x",
		)
	})
	require.NoError(t, err)

	svc := service.NewAuthService(db.Session(&gorm.Session{SkipDefaultTransaction: true}), "test-secret")
	_, _, err = svc.Register(context.Background(), &types.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	assert.True(t, inserted)
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ana@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewAuthService(db, "test-secret")
	_, _, err := svc.Register(context.Background(), &types.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &types.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), &types.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := service.NewAuthService(nil, "test-secret")

	_, err := svc.ValidateToken("invalid.token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	other := service.NewAuthService(nil, "other-secret")
	user := testhelpers.CreateUser(t, testhelpers.SetupSQLite(t), "a@example.com")
	token, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		UserID:           user.ID,
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

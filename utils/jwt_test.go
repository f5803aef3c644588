package utils

import (
	"testing"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func adminUser() models.User {
	return models.User{ID: primitive.NewObjectID(), Email: "admin@example.com", Role: models.RoleAdmin}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	user := adminUser()
	token, err := GenerateAdminToken(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAdminToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, AdminClaims{UserID: user.ID.Hex(), Email: user.Email, Role: models.RoleAdmin}, claims)
}

func TestParseAdminTokenRejects(t *testing.T) {
	token, err := GenerateAdminToken(adminUser(), "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseAdminToken(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAdminToken(token+"x", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateAdminToken(adminUser(), "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAdminToken(expired, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "abc"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAdminToken(noExpiry, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseAdminToken(noUser, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAdminTokenNeedsSecret(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": primitive.NewObjectID().Hex(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = ParseAdminToken(forged, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateAdminTokenNeedsSecret(t *testing.T) {
	_, err := GenerateAdminToken(adminUser(), "", time.Hour)
	assert.Error(t, err)
}

package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
		role     string
		userUID  string
	}{
		{
			name:     "advocate user",
			username: "adv.sharma",
			role:     "Advocate",
			userUID:  "6f1a2b3c-0000-0000-0000-000000000001",
		},
		{
			name:     "client user",
			username: "client_01",
			role:     "Client",
			userUID:  "6f1a2b3c-0000-0000-0000-000000000002",
		},
		{
			name:     "superadmin",
			username: "admin@caseconnect.in",
			role:     "SuperAdmin",
			userUID:  "6f1a2b3c-0000-0000-0000-000000000003",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username, tt.role, tt.userUID)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.userUID, claims.UserUID)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidCases(t *testing.T) {
	maker := NewJWTMaker("secret-one", 15*time.Minute)
	otherMaker := NewJWTMaker("secret-two", 15*time.Minute)

	validToken, err := maker.GenerateToken("adv.sharma", "Advocate", "uid-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage token", token: "not.a.token"},
		{name: "empty token", token: ""},
		{name: "wrong signature", token: validToken + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}

	t.Run("signed with different key", func(t *testing.T) {
		foreign, err := otherMaker.GenerateToken("adv.sharma", "Advocate", "uid-1")
		require.NoError(t, err)
		_, err = maker.ParseToken(foreign)
		assert.Error(t, err)
	})
}

func TestJWTMaker_ExpiredToken(t *testing.T) {
	maker := NewJWTMaker("secret", -time.Minute)
	token, err := maker.GenerateToken("adv.sharma", "Advocate", "uid-1")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

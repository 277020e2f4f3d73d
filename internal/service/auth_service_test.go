package service

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pmmpclub/prep-backend/internal/config"
)

func testAuthService() *AuthService {
	return NewAuthService(&config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // keep hashing fast under test
	}, nil)
}

func signTestToken(t *testing.T, secret, tokenType string, userID int, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
		UserID:    userID,
		Email:     "jane.doe@example.com",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestPasswordRoundTrip(t *testing.T) {
	s := testAuthService()

	hash, err := s.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := s.CheckPassword(hash, "hunter2"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := s.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
}

func TestValidateToken(t *testing.T) {
	s := testAuthService()

	token := signTestToken(t, "test-secret", TokenTypeLearner, 42, time.Hour)
	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.TokenType != TokenTypeLearner {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Email != "jane.doe@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	s := testAuthService()

	t.Run("wrong secret", func(t *testing.T) {
		token := signTestToken(t, "other-secret", TokenTypeLearner, 1, time.Hour)
		if _, err := s.ValidateToken(token); err == nil {
			t.Error("token signed with another secret accepted")
		}
	})

	t.Run("expired", func(t *testing.T) {
		token := signTestToken(t, "test-secret", TokenTypeLearner, 1, -time.Minute)
		if _, err := s.ValidateToken(token); err == nil {
			t.Error("expired token accepted")
		}
	})

	t.Run("wrong token type", func(t *testing.T) {
		token := signTestToken(t, "test-secret", "admin", 1, time.Hour)
		if _, err := s.ValidateToken(token); err == nil {
			t.Error("foreign token type accepted")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := s.ValidateToken("not.a.token"); err == nil {
			t.Error("garbage accepted")
		}
	})
}

func TestDisplayNameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"jane.doe@example.com", "Jane Doe"},
		{"bob@example.com", "Bob"},
		{"a_b-c+d@example.com", "A B C D"},
		{"plainstring", "Plainstring"},
	}
	for _, tc := range cases {
		if got := displayNameFromEmail(tc.email); got != tc.want {
			t.Errorf("displayNameFromEmail(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

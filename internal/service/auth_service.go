package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pmmpclub/prep-backend/internal/config"
	"github.com/pmmpclub/prep-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveLogin      = errors.New("no active login")
)

// TokenTypeLearner is the only token type this service issues.
const TokenTypeLearner = "learner"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	UserID    int    `json:"user_id"`
	Email     string `json:"email"`
}

// storedLearner is the Redis representation of a learner, including
// the password hash that never leaves this package.
type storedLearner struct {
	model.Learner
	PasswordHash string `json:"password_hash"`
}

// AuthService implements the mock identity collaborator: learner
// records live in Redis, logins issue JWTs, and each learner has a
// single active login slot (a new login supersedes the old token).
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login signs a learner in. An email seen for the first time is
// registered on the spot (the product's login is mock identity — any
// well-formed credentials are welcome); a known email must present its
// original password. Returns the learner and a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Learner, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	key := config.CacheKey.LearnerByEmailKey(email)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		learner, regErr := s.register(ctx, email, password)
		if regErr != nil {
			return nil, "", regErr
		}
		token, tokErr := s.generateToken(ctx, learner)
		if tokErr != nil {
			return nil, "", tokErr
		}
		return learner, token, nil
	case err != nil:
		return nil, "", fmt.Errorf("load learner: %w", err)
	}

	var stored storedLearner
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, "", fmt.Errorf("decode learner: %w", err)
	}
	if err := s.CheckPassword(stored.PasswordHash, password); err != nil {
		return nil, "", err
	}

	learner := stored.Learner
	token, err := s.generateToken(ctx, &learner)
	if err != nil {
		return nil, "", err
	}
	return &learner, token, nil
}

// Logout clears the learner's active login slot.
func (s *AuthService) Logout(ctx context.Context, learnerID int) error {
	if err := s.rdb.Del(ctx, config.CacheKey.LearnerSessionKey(learnerID)).Err(); err != nil {
		return fmt.Errorf("clear login slot: %w", err)
	}
	return nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != TokenTypeLearner {
		return nil, errors.New("unexpected token type")
	}
	return claims, nil
}

// ValidateLoginSession checks that the token's JTI matches the active
// login slot; a newer login elsewhere supersedes this token.
func (s *AuthService) ValidateLoginSession(ctx context.Context, learnerID int, jti string) error {
	stored, err := s.rdb.Get(ctx, config.CacheKey.LearnerSessionKey(learnerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoActiveLogin
		}
		return fmt.Errorf("check login slot: %w", err)
	}
	if stored != jti {
		return ErrNoActiveLogin
	}
	return nil
}

func (s *AuthService) register(ctx context.Context, email, password string) (*model.Learner, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.rdb.Incr(ctx, config.CacheKey.LearnerIDCounterKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("allocate learner id: %w", err)
	}

	stored := storedLearner{
		Learner: model.Learner{
			ID:    int(id),
			Name:  displayNameFromEmail(email),
			Email: email,
		},
		PasswordHash: hash,
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode learner: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.LearnerByEmailKey(email), raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("store learner: %w", err)
	}

	return &stored.Learner, nil
}

// generateToken creates a JWT and records its JTI as the learner's
// single active login; any previous token stops validating.
func (s *AuthService) generateToken(ctx context.Context, learner *model.Learner) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(learner.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: TokenTypeLearner,
		UserID:    learner.ID,
		Email:     learner.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.rdb.Set(ctx, config.CacheKey.LearnerSessionKey(learner.ID), jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store login slot: %w", err)
	}
	return signed, nil
}

// displayNameFromEmail derives a readable display name from the email
// local part, e.g. "jane.doe" → "Jane Doe".
func displayNameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return local
	}
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

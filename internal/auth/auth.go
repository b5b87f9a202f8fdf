package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the verified contents of an access token: subject username,
// numeric user id, global role and the resolved branch context.
type Claims struct {
	UserID     int64  `json:"uid"`
	GlobalRole string `json:"global_role"`
	BranchID   *int64 `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and verifies signed identity tokens.
type TokenGenerator interface {
	GenerateAccessToken(user *User, branchID *int64) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// JWTTokenGenerator signs HS256 tokens with a shared secret. Tokens are valid
// until their fixed expiry; there is no refresh or revocation list.
type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(user *User, branchID *int64) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:     user.ID,
		GlobalRole: string(user.GlobalRole),
		BranchID:   branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

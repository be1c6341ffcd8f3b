package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/jumak-backend/internal/platform/ctxutil"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// TokenVerifier turns a bearer token issued by the marketplace auth service
// into request data on the context.
type TokenVerifier interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type tokenVerifier struct {
	log          *logger.Logger
	jwtSecretKey []byte
}

func NewTokenVerifier(log *logger.Logger, jwtSecretKey string) TokenVerifier {
	return &tokenVerifier{
		log:          log.With("service", "TokenVerifier"),
		jwtSecretKey: []byte(jwtSecretKey),
	}
}

func (tv *tokenVerifier) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return tv.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired JWT token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID}), nil
}

// IssueToken signs an HS256 access token for userID. Production tokens come
// from the marketplace auth service; this exists for local tooling and tests.
func IssueToken(jwtSecretKey string, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecretKey))
}

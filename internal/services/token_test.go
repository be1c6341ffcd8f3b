package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/jumak-backend/internal/platform/ctxutil"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

func TestTokenVerifier(t *testing.T) {
	v := NewTokenVerifier(logger.Nop(), "secret")
	userID := uuid.New()

	tok, err := IssueToken("secret", userID, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	ctx, err := v.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID {
		t.Fatalf("unexpected request data: %+v", rd)
	}
}

func TestTokenVerifierRejects(t *testing.T) {
	v := NewTokenVerifier(logger.Nop(), "secret")
	userID := uuid.New()

	wrongKey, _ := IssueToken("other", userID, time.Minute)
	expired, _ := IssueToken("secret", userID, -time.Minute)
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: userID.String(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"empty":       "",
		"garbage":     "abc.def.ghi",
		"wrong key":   wrongKey,
		"expired":     expired,
		"bad subject": badSubject,
		"alg none":    noneAlg,
	}
	for name, tok := range cases {
		if _, err := v.SetContextFromToken(context.Background(), tok); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

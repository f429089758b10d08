package service

import (
	"testing"
	"time"

	"github.com/accountd/accountd/internal/security"
)

func TestTokenServiceIssue(t *testing.T) {
	jwtMgr := security.NewJWTManager("accountd", "accountd-api", "unit-test-secret-0123456789abcdef")
	svc := NewTokenService(jwtMgr, 7*24*time.Hour)

	before := time.Now().UTC()
	token, expiresAt, err := svc.Issue("acct-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := jwtMgr.ParseSessionToken(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != "acct-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}

	wantMin := before.Add(7 * 24 * time.Hour)
	if expiresAt.Before(wantMin) || expiresAt.After(wantMin.Add(time.Minute)) {
		t.Fatalf("expiresAt %v outside expected window around %v", expiresAt, wantMin)
	}
	if svc.TTL() != 7*24*time.Hour {
		t.Fatalf("TTL() = %v", svc.TTL())
	}
}

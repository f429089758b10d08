package service

import (
	"time"

	"github.com/accountd/accountd/internal/security"
)

// TokenService turns a verified credential check into a transport-ready
// session artifact. There is no server-side session state: a signed token is
// self-contained and stays valid until its natural expiry.
type TokenService struct {
	jwtMgr     *security.JWTManager
	sessionTTL time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, sessionTTL time.Duration) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, sessionTTL: sessionTTL}
}

func (s *TokenService) Issue(accountID string) (token string, expiresAt time.Time, err error) {
	token, err = s.jwtMgr.SignSessionToken(accountID, s.sessionTTL)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().UTC().Add(s.sessionTTL), nil
}

func (s *TokenService) TTL() time.Duration { return s.sessionTTL }

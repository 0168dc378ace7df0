package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const tokenKey = "token"

// VersionChecker reports the current token version of a user. It lets the
// API middleware reject tokens issued before a password change.
type VersionChecker interface {
	CurrentTokenVersion(ctx context.Context, userID string) (int, error)
}

// SessionManager issues, reads, and clears session tokens. The signed token
// travels in a cookie (gorilla/sessions cookie store) or, for API clients,
// in an "Authorization: Bearer" header.
type SessionManager struct {
	store    *sessions.CookieStore
	tokens   *Tokens
	name     string
	versions VersionChecker
	log      *zap.Logger
}

// NewSessionManager creates the session manager from config.
//
// In production (secure=true) cookies are Secure + SameSite=None; in local
// dev over http://localhost use secure=false so browsers accept them.
func NewSessionManager(sessionKey, sessionName, domain, issuer string, ttl time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	if sessionName == "" {
		sessionName = "portfolio-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("ttl", ttl))

	return &SessionManager{
		store:  store,
		tokens: NewTokens(sessionKey, issuer, ttl),
		name:   sessionName,
		log:    logger,
	}, nil
}

// SetVersionChecker enables token-version validation in RequireSignedIn.
func (m *SessionManager) SetVersionChecker(vc VersionChecker) {
	m.versions = vc
}

// Tokens exposes the token signer.
func (m *SessionManager) Tokens() *Tokens {
	return m.tokens
}

// getSession returns the cookie session. A cookie that no longer decodes
// (rotated key, tampering) yields a fresh session; that case is only logged.
func (m *SessionManager) getSession(r *http.Request) *sessions.Session {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			m.log.Debug("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			m.log.Warn("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

// Issue signs a token for id, stores it in the session cookie, and returns
// it so API clients can use it as a bearer token.
func (m *SessionManager) Issue(w http.ResponseWriter, r *http.Request, id Identity) (string, error) {
	tok, err := m.tokens.Issue(id)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	sess := m.getSession(r)
	sess.Values[tokenKey] = tok
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return tok, nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess := m.getSession(r)
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Claims extracts and verifies the token of r. A bearer header wins over
// the cookie. Absent or invalid tokens return ok=false.
func (m *SessionManager) Claims(r *http.Request) (*Claims, bool) {
	raw := bearerToken(r)
	if raw == "" {
		if c, err := r.Cookie(m.name); err != nil || c.Value == "" {
			return nil, false
		}
		raw, _ = m.getSession(r).Values[tokenKey].(string)
	}
	if raw == "" {
		return nil, false
	}
	claims, err := m.tokens.Parse(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

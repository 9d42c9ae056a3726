package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionName is the cookie carrying the signed admin session.
	SessionName = "admin-session"
	// SessionTTL bounds how long a session stays valid after login.
	SessionTTL = 24 * time.Hour

	keyAuthenticated = "authenticated"
	keyIssuedAt      = "issued_at"
)

var (
	// ErrMissingCredential is returned when the login form carried no password.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential is returned when the password does not match.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Session is the part of sessions.Session the guard relies on.
type Session interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Clear()
	Options(sessions.Options)
	Save() error
}

// Guard issues and checks the admin session. There is a single shared admin
// secret and no per-user identity.
type Guard struct {
	secretHash []byte
	ttl        time.Duration
	now        func() time.Time
	secure     bool
}

// NewGuard hashes the configured admin secret once so that login attempts are
// compared with bcrypt. An empty secret yields a guard that rejects every login.
// Secrets are digested with SHA-256 first, so length is not capped by bcrypt's
// 72-byte input limit and every byte takes part in the comparison.
func NewGuard(secret string, secure bool) (*Guard, error) {
	guard := &Guard{ttl: SessionTTL, now: time.Now, secure: secure}

	if secret == "" {
		return guard, nil
	}

	hash, err := bcrypt.GenerateFromPassword(digest(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	guard.secretHash = hash
	return guard, nil
}

// Enabled reports whether an admin secret was configured.
func (g *Guard) Enabled() bool {
	return len(g.secretHash) > 0
}

// Establish marks the session as authenticated when supplied matches the
// admin secret.
func (g *Guard) Establish(s Session, supplied string) error {
	if strings.TrimSpace(supplied) == "" {
		return ErrMissingCredential
	}
	if !g.Enabled() {
		return ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword(g.secretHash, digest(supplied)); err != nil {
		return ErrInvalidCredential
	}

	s.Clear()
	s.Options(g.options(int(g.ttl.Seconds())))
	s.Set(keyAuthenticated, true)
	s.Set(keyIssuedAt, g.now().Unix())
	return s.Save()
}

// Validate reports whether the session was established and is still within
// the TTL.
func (g *Guard) Validate(s Session) bool {
	if s == nil {
		return false
	}

	authenticated, _ := s.Get(keyAuthenticated).(bool)
	if !authenticated {
		return false
	}

	issuedAt, ok := s.Get(keyIssuedAt).(int64)
	if !ok {
		return false
	}

	age := g.now().Sub(time.Unix(issuedAt, 0))
	return age >= 0 && age < g.ttl
}

// End clears the session and expires the cookie.
func (g *Guard) End(s Session) error {
	s.Clear()
	s.Options(g.options(-1))
	return s.Save()
}

func digest(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	dst := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(dst, sum[:])
	return dst
}

func (g *Guard) options(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewStore returns the signed cookie store backing the admin session.
func NewStore(secret string, secure bool) sessions.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

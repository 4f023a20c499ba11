package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lenslab/internal/domain"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "lenslab_token"

const sessionTTL = 7 * 24 * time.Hour

// SessionClaims are the JWT claims backing a browser session.
type SessionClaims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Admin    bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens.
type TokenManager struct {
	secret []byte
	secure bool
}

// NewTokenManager builds a TokenManager. secure controls the Secure attribute
// on issued cookies and should be true outside development.
func NewTokenManager(secret string, secure bool) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret required")
	}
	return &TokenManager{secret: []byte(secret), secure: secure}, nil
}

// Sign issues a session token for the principal.
func (tm *TokenManager) Sign(p domain.Principal) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:   p.UserID,
		Email:    p.Email,
		Username: p.Username,
		Admin:    p.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    "lenslab",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Verify parses and validates a session token, returning the principal it
// encodes.
func (tm *TokenManager) Verify(token string) (domain.Principal, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Principal{}, errors.New("invalid token")
	}
	return domain.Principal{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		Admin:    claims.Admin,
	}, nil
}

// SetCookie attaches the session cookie to the response.
func (tm *TokenManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   tm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (tm *TokenManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   tm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts and verifies the session cookie, returning the
// principal or an error when the request carries no valid session.
func (tm *TokenManager) FromRequest(r *http.Request) (domain.Principal, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return domain.Principal{}, errors.New("no session")
	}
	return tm.Verify(cookie.Value)
}

package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/minexboard/minex/internal/rbac"
)

// Claims is the token claim set. The role claim reflects the role at
// issuance time; identity resolution always re-reads the current role from
// the user store.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ResolveToken extracts a bearer token from the request: the Authorization
// header first, then the named cookie. Returns "" when no credential is
// present. Never fails.
func ResolveToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Verifier checks token signatures and expiry against a shared secret.
// It performs no I/O.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify validates the token and returns its claims, or a typed Failure.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Issue signs a new token for the user with the given lifetime.
func (v *Verifier) Issue(userID int64, role rbac.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

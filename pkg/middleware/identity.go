package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "cabins/pkg/errors"
	httputil "cabins/pkg/http"
	"cabins/pkg/logger"
	"cabins/pkg/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	IdentityKey contextKey = "identity"

	UserIDHeader    = "X-User-ID"
	UserEmailHeader = "X-User-Email"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token")

// Identity attaches the caller's identity to the request context. With a
// secret configured, a bearer token signed with HS256 is required to carry an
// identity, and a malformed token is rejected with 401. Without a secret the
// X-User-ID and X-User-Email headers are trusted as-is, as when running behind
// an authenticating gateway. Requests with no identity pass through
// anonymously; operations that need one reject them further down.
func Identity(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity model.Identity

			if secret != "" {
				raw, ok := bearerToken(r)
				if ok {
					claims, err := ParseToken(secret, raw)
					if err != nil {
						log.Warn("Rejected bearer token",
							"request_id", RequestIDFromContext(r.Context()),
							"error", err,
						)
						_ = httputil.WriteError(w, apperrors.Unauthenticated("Invalid or expired token"))
						return
					}
					identity = model.Identity{UserID: claims.Subject, Email: claims.Email}
				}
			} else {
				identity = model.Identity{
					UserID: strings.TrimSpace(r.Header.Get(UserIDHeader)),
					Email:  strings.TrimSpace(r.Header.Get(UserEmailHeader)),
				}
			}

			if !identity.IsZero() {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func IdentityFromContext(ctx context.Context) model.Identity {
	if identity, ok := ctx.Value(IdentityKey).(model.Identity); ok {
		return identity
	}
	return model.Identity{}
}

func IssueToken(secret string, identity model.Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

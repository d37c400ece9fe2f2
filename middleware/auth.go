package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/golang-jwt/jwt/v4"
)

// Authenticator validates the bearer token and loads the account it
// names. Requests without a valid token never reach the handlers.
type Authenticator struct {
	secret   []byte
	userRepo repositories.UserRepository
}

func NewAuthenticator(secret string, userRepo repositories.UserRepository) *Authenticator {
	return &Authenticator{secret: []byte(secret), userRepo: userRepo}
}

func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		subject, ok := claims["sub"].(float64)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token subject")
			return
		}

		user, err := a.userRepo.GetByID(r.Context(), int(subject))
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "account no longer exists")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

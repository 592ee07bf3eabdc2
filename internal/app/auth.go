package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/julienschmidt/httprouter"
)

var ErrNoJWTKey = errors.New("JWT_KEY is not configured")

type Claims struct {
	Scope string `json:"scope"`
	jwt.StandardClaims
}

const reportScope = "sales:read"

// IssueToken signs a bearer token for the report API with key, valid for ttl.
func IssueToken(key, subject string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrNoJWTKey
	}
	now := time.Now()
	claims := &Claims{
		Scope: reportScope,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(key))
}

// jwtMiddleware requires a valid bearer token when a JWT key is configured
// and lets every request through otherwise.
func (app *Application) jwtMiddleware(next httprouter.Handle) http.HandlerFunc {
	return wrapHandle(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if app.config.JWTKey == "" {
			next(w, r, ps)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			app.authorizationErrorResponse(w, r, "authorization header missing")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" || tokenString == authHeader {
			app.authorizationErrorResponse(w, r, "invalid token format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(app.config.JWTKey), nil
		})

		if err != nil || !token.Valid || claims.Scope != reportScope {
			app.authorizationErrorResponse(w, r, "invalid token")
			return
		}

		next(w, r, ps)
	})
}

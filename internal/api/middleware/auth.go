package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/talentlink/identity-api/internal/core/ports"
)

// Auth validates the bearer token and injects its claims into the request
// context under "username" (the sub claim) and "jti". When a registry is
// given, tokens whose jti was never recorded at issuance are rejected.
func Auth(jwtSecret string, registry ports.TokenRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			jti, _ := claims["jti"].(string)
			if sub == "" || jti == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity claims")
			}

			if registry != nil {
				known, err := registry.IsKnown(c.Request().Context(), jti)
				// A registry outage must not lock every caller out; only a
				// definite miss rejects the token.
				if err == nil && !known {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown token")
				}
			}

			c.Set("username", sub)
			c.Set("jti", jti)

			return next(c)
		}
	}
}

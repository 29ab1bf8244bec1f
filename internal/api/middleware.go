package api

import (
	"errors"
	"strings"
	"time"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenSubject = "admin"

func (s *Server) authMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if auth == "" {
			return s.fail(c, apperrors.New(apperrors.ErrUnauthorized.Code, "missing authorization header"))
		}

		if !s.validToken(strings.TrimPrefix(auth, "Bearer ")) {
			return s.fail(c, apperrors.New(apperrors.ErrUnauthorized.Code, "invalid token"))
		}

		return c.Next()
	}
}

// wsAuthMiddleware accepts the token as a query parameter, since browsers
// cannot set headers on websocket upgrades
func (s *Server) wsAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !s.validToken(c.Query("token")) {
			return s.fail(c, apperrors.New(apperrors.ErrUnauthorized.Code, "invalid token"))
		}
		return c.Next()
	}
}

func (s *Server) validToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Security.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithSubject(tokenSubject))
	return err == nil && token.Valid
}

func (s *Server) rateLimitMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.RecordRequestBlocked()
			return s.fail(c, apperrors.ErrRateLimited)
		}
		return c.Next()
	}
}

func (s *Server) metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.HTTPStatus(err)
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		if status != fiber.StatusTooManyRequests {
			s.metrics.RecordRequest(status < fiber.StatusInternalServerError)
		}
		return err
	}
}

// issueToken checks the password against the configured bcrypt hash and
// signs a bearer token
func (s *Server) issueToken(password string) (*LoginResponse, error) {
	hash := s.config.Security.AdminPasswordHash
	if hash == "" || password == "" {
		return nil, apperrors.New(apperrors.ErrUnauthorized.Code, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, apperrors.New(apperrors.ErrUnauthorized.Code, "invalid credentials")
	}

	ttl := s.config.Security.TokenTTLHours
	if ttl <= 0 {
		ttl = 24 * 7
	}
	now := time.Now()
	expires := now.Add(time.Duration(ttl) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString([]byte(s.config.Security.JWTSecret))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, "failed to generate token")
	}
	return &LoginResponse{Token: signed, ExpiresAt: expires}, nil
}

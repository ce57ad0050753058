package middleware

import (
	"errors"
	"net/http"
	"strings"

	"job-tracker/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	authorizationHeader = "Authorization"
	sessionCtx          = "session" // Key to store the session in context
)

// SessionAuth authenticates the bearer token and stores the session in the context.
func SessionAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			log.Println("Auth middleware: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		s, err := sessions.Parse(c.Request.Context(), headerParts[1])
		if err != nil {
			log.WithField("path", c.FullPath()).Debugf("Auth middleware: rejected token: %v", err)
			switch {
			case errors.Is(err, session.ErrExpiredToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			case errors.Is(err, session.ErrRevoked):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been logged out"})
			case errors.Is(err, session.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			default:
				log.Errorf("Auth middleware: session check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to verify session"})
			}
			return
		}

		c.Set(sessionCtx, s)
		c.Next()
	}
}

// GetSession returns the session stored by SessionAuth.
func GetSession(c *gin.Context) (*session.Session, error) {
	v, exists := c.Get(sessionCtx)
	if !exists {
		return nil, errors.New("session not found in context")
	}
	s, ok := v.(*session.Session)
	if !ok {
		return nil, errors.New("session in context is of invalid type")
	}
	return s, nil
}

// GetUserIDFromContext returns the authenticated user's ID.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	s, err := GetSession(c)
	if err != nil {
		return uuid.Nil, err
	}
	return s.UserID, nil
}

// SetSession stores s in the context. Used by tests that bypass token parsing.
func SetSession(c *gin.Context, s *session.Session) {
	c.Set(sessionCtx, s)
}

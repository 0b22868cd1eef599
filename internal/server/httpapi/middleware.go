package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxUserID    = "user_id"
	ctxToken     = "session_token"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxRequestID, rid)
		c.Header(requestIDHeader, rid)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", rid,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// cors reflects the caller's origin and allows credentials so a browser
// frontend on another origin can send the session cookie.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// loadSession resolves the session cookie, if any, and refreshes it so the
// client's expiry follows the server-side one. Requests without a valid
// session continue anonymously.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		userID, ok, err := s.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			s.writeServiceError(c, err)
			c.Abort()
			return
		}
		if !ok {
			s.clearSessionCookie(c)
			c.Next()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxToken, token)
		s.setSessionCookie(c, token)
		c.Next()
	}
}

// requireUser rejects anonymous requests with 401 and the given message.
func (s *Server) requireUser(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msg})
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, int(s.sessions.TTL().Seconds()), "/", "", s.opts.SecureCookie, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.opts.SecureCookie, true)
}

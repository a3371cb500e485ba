package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/phazelsound/client/internal/gateway"
	"github.com/phazelsound/client/internal/model"
)

const (
	authUserKey     = "auth_user"
	requestIDHeader = "X-Request-ID"
)

func AuthMiddleware(tokens *gateway.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			abortUnauthorized(c)
			return
		}

		user, err := tokens.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: http.StatusText(http.StatusUnauthorized)})
}

func GetAuthUser(c *gin.Context) *model.User {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.User); ok {
			return user
		}
	}
	return nil
}

// RateLimit rejects with 429 once a client IP exceeds the limiter window
// for key.
func RateLimit(limiter *gateway.RateLimiter, key string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, retryAfter, err := limiter.Allow(c.Request.Context(), key, ip)
		if err != nil {
			// redis 장애 시 요청은 통과
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}
		if !ok {
			seconds := int(retryAfter / time.Second)
			log.WithFields(logrus.Fields{"ip": ip, "key": key}).Warn("rate limit exceeded")
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Message: fmt.Sprintf("You are going too fast! Please try again in %d seconds.", seconds),
			})
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request, tagged with the caller's
// X-Request-ID (or a generated one).
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
			"client_ip":  c.ClientIP(),
		}).Info("request handled")
	}
}

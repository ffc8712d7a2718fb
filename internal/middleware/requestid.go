package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"
)

// maxClientRequestIDLen bounds the client-supplied id copied into logs.
const maxClientRequestIDLen = 128

// RequestID assigns every request a fresh server-side UUID, echoed in the
// X-Request-ID response header and in every error body. A client-supplied
// X-Request-ID is kept as "client_request_id" for correlation only, cut to
// maxClientRequestIDLen bytes.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			if len(clientID) > maxClientRequestIDLen {
				clientID = clientID[:maxClientRequestIDLen]
			}
			c.Set("client_request_id", clientID)
			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": clientID,
				"path":              c.FullPath(),
			}).Debug("correlating client request id")
		}

		c.Next()
	}
}

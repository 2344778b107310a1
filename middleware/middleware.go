package middleware

import (
	"time"

	U "campaigniq/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// scope constants.
const SCOPE_REQ_ID = "reqId"

// SetScopeRequestId assigns each request a uuid on the context scope
// for correlated logging.
func SetScopeRequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		U.SetScope(c, SCOPE_REQ_ID, uuid.New().String())
		c.Next()
	}
}

// RequestLogger logs method, path, status and latency per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"reqId":   U.GetScopeByKeyAsString(c, SCOPE_REQ_ID),
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("Processed request.")
	}
}

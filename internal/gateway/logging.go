package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger emits one structured log line per proxied request.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString("request_id"),
		}).Info("gateway request")
	}
}

type auditDoc struct {
	Timestamp time.Time `json:"@timestamp"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	ClientIP  string    `json:"client_ip"`
	RequestID string    `json:"request_id"`
	UserAgent string    `json:"user_agent"`
}

// AuditLogger ships per-request audit documents to Elasticsearch.
// Indexing is best-effort and off the request path; a down cluster
// never slows or fails traffic.
func AuditLogger(es *elasticsearch.Client, index string, logger *logrus.Logger) gin.HandlerFunc {
	if es == nil || index == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		doc := auditDoc{
			Timestamp: start.UTC(),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			LatencyMS: time.Since(start).Milliseconds(),
			ClientIP:  c.ClientIP(),
			RequestID: c.GetString("request_id"),
			UserAgent: c.Request.UserAgent(),
		}

		go func() {
			body, err := json.Marshal(doc)
			if err != nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			res, err := es.Index(index, bytes.NewReader(body), es.Index.WithContext(ctx))
			if err != nil {
				logger.WithError(err).Debug("audit index failed")
				return
			}
			_ = res.Body.Close()
		}()
	}
}

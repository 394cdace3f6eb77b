package handler

import (
	"context"
	"net/http"
	"time"

	"casaceja/internal/infra"
	"casaceja/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MailerStatus is the part of the mailer the health check reads.
type MailerStatus interface {
	BreakerState() infra.BreakerState
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the SMTP breaker and the
// dead-letter and retry backlogs; never exposes credentials or internals.
func Health(db *gorm.DB, rdb redis.UniversalClient, mailer MailerStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if mailer != nil {
			body["smtp"] = mailer.BreakerState().String()
		}
		if redisStatus == "connected" {
			dlq, reintentos := gin.H{}, gin.H{}
			for _, q := range []string{worker.QueueImpresion, worker.QueueEmail} {
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					dlq[q] = n
				}
				if n, err := worker.RetryLength(ctx, rdb, q); err == nil {
					reintentos[q] = n
				}
			}
			body["dlq"] = dlq
			body["reintentos"] = reintentos
		}

		c.JSON(status, body)
	}
}

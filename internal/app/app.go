package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Roniclay/agrovet-api/internal/config"
	httpx "github.com/Roniclay/agrovet-api/internal/http"
	"github.com/Roniclay/agrovet-api/internal/http/handlers"
)

// Run wires the container and serves HTTP until the process exits.
func Run(cfg *config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unavailable, session cache disabled at first use", zap.Error(err))
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.ResetSvc)
	roleH := handlers.NewRoleHandlers(c.RoleSvc)

	r := httpx.BuildRouter(authH, roleH, c.TokenSvc, c.SessionRepo)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

package app

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Roniclay/agrovet-api/domain"
	"github.com/Roniclay/agrovet-api/internal/config"
	"github.com/Roniclay/agrovet-api/internal/infrastructure/auth"
	"github.com/Roniclay/agrovet-api/internal/infrastructure/database"
	"github.com/Roniclay/agrovet-api/internal/infrastructure/notifications"
	"github.com/Roniclay/agrovet-api/internal/infrastructure/repositories"
	"github.com/Roniclay/agrovet-api/internal/services"
)

// sessionCacheTTL bounds how long a deleted session can outlive its row in
// the cache layer.
const sessionCacheTTL = time.Minute

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	TenantRepo  domain.TenantRepository
	UserRepo    domain.UserRepository
	RoleRepo    domain.RoleRepository
	ResetRepo   domain.ResetTokenRepository
	SessionRepo domain.SessionRepository
	AuditLog    domain.AuditLogger

	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Mailer      domain.Mailer
	AuthSvc     domain.AuthService
	ResetSvc    domain.PasswordResetService
	RoleSvc     domain.RoleService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	c.DB = db
	c.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	c.TenantRepo = repositories.NewTenantRepository(db)
	c.UserRepo = repositories.NewUserRepository(db)
	c.RoleRepo = repositories.NewRoleRepository(db)
	c.ResetRepo = repositories.NewResetTokenRepository(db)
	c.SessionRepo = repositories.NewSessionRepository(db, c.RedisClient, sessionCacheTTL)
	c.AuditLog = repositories.NewAuditRepository(db)

	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	c.Mailer = notifications.NewMailService(notifications.SMTPConfig{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailFrom,
	}, logger)

	lockout := services.NewLockoutPolicy(services.LockoutConfig{
		MaxAttempts:  cfg.MaxAttempts,
		LockDuration: cfg.LockDuration,
	})
	rbac := services.NewRBACResolver(c.RoleRepo)

	c.AuthSvc = services.NewAuthService(
		c.TenantRepo, c.UserRepo, c.RoleRepo, c.SessionRepo,
		c.PasswordSvc, c.TokenSvc, rbac, lockout, c.AuditLog,
		cfg.SessionTTL, logger,
	)
	c.ResetSvc = services.NewPasswordResetService(
		c.UserRepo, c.ResetRepo, c.SessionRepo, c.PasswordSvc, c.Mailer,
		services.ResetConfig{TokenTTL: cfg.ResetTokenTTL, FrontendURL: cfg.FrontendURL},
		logger,
	)
	c.RoleSvc = services.NewRoleService(c.RoleRepo)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

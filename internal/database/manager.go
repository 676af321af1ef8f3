package database

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database connection manager
type Manager struct {
	DB     *gorm.DB
	Redis  *redis.Client
	logger *logrus.Logger
}

// Database configuration
type Config struct {
	DatabaseURL string
	RedisURL    string
	LogLevel    string
}

// NewManager creates a new database manager with connection pooling
func NewManager(config *Config, logger *logrus.Logger) (*Manager, error) {
	gormLogLevel := gormlogger.Silent
	if config.LogLevel == "debug" {
		gormLogLevel = gormlogger.Info
	}

	// Open database connection with pooling
	db, err := gorm.Open(postgres.Open(config.DatabaseURL), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormLogLevel),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Connect to Redis
	redisOpts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.PoolSize = 20
	redisOpts.MinIdleConns = 5

	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Database and Redis connections established successfully")

	return &Manager{
		DB:     db,
		Redis:  redisClient,
		logger: logger,
	}, nil
}

// Migrate runs database migrations
func (m *Manager) Migrate() error {
	m.logger.Info("Running database migrations...")

	return m.DB.AutoMigrate(
		&models.HelpRequest{},
		&models.KnowledgeBaseEntry{},
	)
}

// Close closes all database connections
func (m *Manager) Close() error {
	if m.Redis != nil {
		if err := m.Redis.Close(); err != nil {
			m.logger.WithError(err).Error("Failed to close Redis connection")
		}
	}

	if m.DB != nil {
		sqlDB, err := m.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}

// Health check methods
func (m *Manager) PingDatabase() error {
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (m *Manager) PingRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Redis.Ping(ctx).Err()
}

// Cache implementation
type Cache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewCache(client *redis.Client, logger *logrus.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Cache key constants
const (
	KBVersionKey    = "kb:version"
	KBSearchKey     = "kb:search:v%d:%s"
	SystemHealthKey = "system:health"
)

// kbSearchKey embeds the current KB version so cached results from before an
// append are never served again.
func (c *Cache) kbSearchKey(ctx context.Context, query string) (string, error) {
	version, err := c.client.Get(ctx, KBVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}

	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf(KBSearchKey, version, hex.EncodeToString(hash[:])), nil
}

// CacheKBSearch caches ranked KB matches for a query
func (c *Cache) CacheKBSearch(ctx context.Context, query string, matches []models.KBMatch, expiration time.Duration) error {
	key, err := c.kbSearchKey(ctx, query)
	if err != nil {
		return err
	}

	data, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to marshal KB matches: %w", err)
	}

	return c.client.Set(ctx, key, data, expiration).Err()
}

// GetCachedKBSearch retrieves cached KB matches for a query
func (c *Cache) GetCachedKBSearch(ctx context.Context, query string) ([]models.KBMatch, error) {
	key, err := c.kbSearchKey(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var matches []models.KBMatch
	err = json.Unmarshal([]byte(data), &matches)
	return matches, err
}

// BumpKBVersion invalidates all cached KB searches after an append
func (c *Cache) BumpKBVersion(ctx context.Context) error {
	return c.client.Incr(ctx, KBVersionKey).Err()
}

// CacheSystemHealth caches system health status
func (c *Cache) CacheSystemHealth(ctx context.Context, health interface{}, expiration time.Duration) error {
	data, err := json.Marshal(health)
	if err != nil {
		return fmt.Errorf("failed to marshal system health: %w", err)
	}

	return c.client.Set(ctx, SystemHealthKey, data, expiration).Err()
}

// GetCachedSystemHealth retrieves cached system health into result
func (c *Cache) GetCachedSystemHealth(ctx context.Context, result interface{}) error {
	data, err := c.client.Get(ctx, SystemHealthKey).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), result)
}

package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"merchconsole/internal/models"
)

type CacheService interface {
	// Category tree caching
	GetCategoryTree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error)
	SetCategoryTree(ctx context.Context, tenantID uuid.UUID, tree []*models.Category, ttl time.Duration) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisCacheService(addr, password string, db int, log zerolog.Logger) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	} else {
		log.Debug().Str("addr", parsedAddr).Msg("redis connection established")
	}

	return &redisCacheService{client: client, log: log}
}

func categoryTreeKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("merchconsole:category_tree:%s", tenantID.String())
}

func (r *redisCacheService) GetCategoryTree(ctx context.Context, tenantID uuid.UUID) ([]*models.Category, error) {
	data, err := r.client.Get(ctx, categoryTreeKey(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var tree []*models.Category
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (r *redisCacheService) SetCategoryTree(ctx context.Context, tenantID uuid.UUID, tree []*models.Category, ttl time.Duration) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, categoryTreeKey(tenantID), data, ttl).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const summaryKeyPrefix = "document:summary:"

// SummaryCache keeps lazily generated document summaries in Redis so
// repeated summary requests skip the LLM call. Strictly best-effort: a
// Redis failure degrades to a cache miss, never to a request failure.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCacheFromURL(url string) (*SummaryCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &SummaryCache{
		client: redis.NewClient(opts),
		ttl:    24 * time.Hour,
	}, nil
}

func (c *SummaryCache) Get(ctx context.Context, documentId string) (string, bool) {
	val, err := c.client.Get(ctx, summaryKeyPrefix+documentId).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *SummaryCache) Set(ctx context.Context, documentId, summary string) {
	c.client.Set(ctx, summaryKeyPrefix+documentId, summary, c.ttl)
}

func (c *SummaryCache) Delete(ctx context.Context, documentId string) {
	c.client.Del(ctx, summaryKeyPrefix+documentId)
}

func (c *SummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SummaryCache) Close() error {
	return c.client.Close()
}

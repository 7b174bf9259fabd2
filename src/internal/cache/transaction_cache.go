package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"

	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/metrics"
)

// Loader fetches a transaction from the backing store on a cache miss.
type Loader func(ctx context.Context, transactionID string) (domain.Transaction, error)

// TransactionCache keeps recently written or read transactions in memory.
// Transactions never change once recorded, so entries only leave the cache
// through TTL or eviction.
type TransactionCache struct {
	c     *ristretto.Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewTransactionCache(ttl time.Duration) (*TransactionCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction cache: %w", err)
	}

	return &TransactionCache{c: c, ttl: ttl}, nil
}

// Get returns the cached transaction or loads it. Concurrent misses for the
// same id share a single load.
func (c *TransactionCache) Get(ctx context.Context, transactionID string, load Loader) (domain.Transaction, error) {
	if v, ok := c.c.Get(transactionID); ok {
		if transaction, ok := v.(domain.Transaction); ok {
			metrics.TransactionCacheCounter.WithLabelValues(metrics.CacheResultHit).Inc()
			return transaction, nil
		}
	}
	metrics.TransactionCacheCounter.WithLabelValues(metrics.CacheResultMiss).Inc()

	v, err, _ := c.group.Do(transactionID, func() (any, error) {
		transaction, err := load(ctx, transactionID)
		if err != nil {
			return nil, err
		}
		c.Put(transaction)
		return transaction, nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return v.(domain.Transaction), nil
}

func (c *TransactionCache) Put(transaction domain.Transaction) {
	if transaction.TransactionID == "" {
		return
	}
	c.c.SetWithTTL(transaction.TransactionID, transaction, 1, c.ttl)
}

// Wait blocks until buffered writes are visible to Get.
func (c *TransactionCache) Wait() {
	c.c.Wait()
}

func (c *TransactionCache) Close() {
	c.c.Close()
}

package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance valkey.Client
	valkeyOnce     sync.Once
)

const completionCacheTTL = 24 * time.Hour

// InitValkey connects the optional completion cache. When
// VALKEY_INIT_ADDRESS is unset the cache stays disabled and every completion
// goes to the service directly.
func InitValkey() {
	valkeyOnce.Do(func() {
		valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
		if valkeyAddr == "" {
			slog.Info("[ValkeyClient] VALKEY_INIT_ADDRESS not set, completion cache disabled")
			return
		}

		opts := valkey.ClientOption{
			InitAddress:      []string{valkeyAddr},
			Password:         os.Getenv("VALKEY_PASSWORD"),
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}
		if os.Getenv("VALKEY_TLS") == "true" {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
		}

		client, err := valkey.NewClient(opts)
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to create Valkey client: %w", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err))
		}

		valkeyInstance = client
		slog.Info("[ValkeyClient] Successfully connected to valkey")
	})
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Close()
	}
}

// GetCachedCompletion looks a completion up by prompt hash. A miss, a disabled
// cache, and a transport error all report the same thing: not cached.
func GetCachedCompletion(ctx context.Context, key string) (string, bool) {
	if valkeyInstance == nil {
		return "", false
	}

	value, err := valkeyInstance.Do(ctx, valkeyInstance.B().Get().Key(key).Build()).ToString()
	if err != nil {
		return "", false
	}
	return value, true
}

func CacheCompletion(ctx context.Context, key, value string) {
	if valkeyInstance == nil {
		return
	}

	err := valkeyInstance.Do(ctx,
		valkeyInstance.B().Set().Key(key).Value(value).Ex(completionCacheTTL).Build()).Error()
	if err != nil {
		slog.Warn("[ValkeyClient] Failed to cache completion",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

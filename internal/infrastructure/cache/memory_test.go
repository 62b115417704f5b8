package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/scanstock/backend/internal/domain"
)

func TestProductKey(t *testing.T) {
	tests := []struct {
		barcode  string
		sourceID string
		want     string
	}{
		{"6111245591063", "hanouty", "product:6111245591063:hanouty"},
		{"6111245591063", "openfoodfacts", "product:6111245591063:openfoodfacts"},
		{"123", "*", "product:123:*"},
	}

	for _, tt := range tests {
		if got := ProductKey(tt.barcode, tt.sourceID); got != tt.want {
			t.Errorf("ProductKey(%q, %q) = %q, want %q", tt.barcode, tt.sourceID, got, tt.want)
		}
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		value   interface{}
		ttl     time.Duration
		wantErr bool
	}{
		{
			name:    "store and retrieve string",
			key:     "test-key-1",
			value:   "test-value",
			ttl:     1 * time.Minute,
			wantErr: false,
		},
		{
			name: "store and retrieve product",
			key:  ProductKey("6111245591063", "hanouty"),
			value: &domain.ProductInfo{
				Barcode: "6111245591063",
				Name:    "Sidi Ali 1.5L",
				Price:   "5.50",
				Source:  "hanouty",
			},
			ttl:     1 * time.Minute,
			wantErr: false,
		},
		{
			name:    "store with short TTL",
			key:     "test-key-3",
			value:   "expires-soon",
			ttl:     1 * time.Millisecond,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cache.Set(ctx, tt.key, tt.value, tt.ttl)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			// For short TTL test, wait for expiration
			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				// Expired entries are never served
				_, err := cache.Get(ctx, tt.key)
				if err != domain.ErrCacheMiss {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			if _, err := cache.Get(ctx, tt.key); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		})
	}
}

func TestMemoryCache_GetMissing(t *testing.T) {
	cache := NewMemoryCache()

	_, err := cache.Get(context.Background(), "no-such-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_OverwriteSameKey(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	key := ProductKey("123", "hanouty")

	if err := cache.Set(ctx, key, "first", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Set(ctx, key, "second", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "second" {
		t.Errorf("Get() = %v, want second (last write wins)", got)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "present", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Set(ctx, "expired", "v", time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if ok, _ := cache.Exists(ctx, "present"); !ok {
		t.Error("Exists(present) = false, want true")
	}
	if ok, _ := cache.Exists(ctx, "expired"); ok {
		t.Error("Exists(expired) = true, want false")
	}
	if ok, _ := cache.Exists(ctx, "missing"); ok {
		t.Error("Exists(missing) = true, want false")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, "key"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("key-%d", i), i, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := cache.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}

	cache.Clear()
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() after Clear = %d, want 0", size)
	}
}

// Concurrent batch workers share the cache; writes to a key must be atomic.
func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := ProductKey(fmt.Sprintf("barcode-%d", i%5), "hanouty")
			if err := cache.Set(ctx, key, i, time.Minute); err != nil {
				t.Errorf("Set() error = %v", err)
			}
			cache.Get(ctx, key)
			cache.Exists(ctx, key)
		}(i)
	}
	wg.Wait()

	if size := cache.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}
}

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/location"
	basecache "github.com/riskibarqy/futplan/internal/platform/cache"
)

// LocationRepository memoizes location lookups, including misses.
type LocationRepository struct {
	next  location.Repository
	cache *basecache.Store[cachedLocationByID]
}

func NewLocationRepository(next location.Repository, ttl time.Duration) *LocationRepository {
	return &LocationRepository{next: next, cache: basecache.NewStore[cachedLocationByID](ttl)}
}

func (r *LocationRepository) GetByID(ctx context.Context, locationID string) (location.Location, bool, error) {
	key := "location:id:" + strings.TrimSpace(locationID)
	cached, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (cachedLocationByID, error) {
		item, exists, err := r.next.GetByID(ctx, locationID)
		if err != nil {
			return cachedLocationByID{}, err
		}
		return cachedLocationByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return location.Location{}, false, err
	}

	return cached.value, cached.exists, nil
}

// Invalidate drops a single location, or every location when locationID is empty.
func (r *LocationRepository) Invalidate(ctx context.Context, locationID string) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		r.cache.DeletePrefix(ctx, "location:")
		return
	}
	r.cache.Delete(ctx, "location:id:"+locationID)
}

type cachedLocationByID struct {
	value  location.Location
	exists bool
}

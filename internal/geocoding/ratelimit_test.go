package geocoding_test

import (
	"context"
	"testing"
	"time"

	"github.com/UnknownOlympus/csv2kml/internal/geocoding"
	"github.com/UnknownOlympus/csv2kml/internal/models"
	"github.com/UnknownOlympus/csv2kml/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedProvider_Geocode(t *testing.T) {
	t.Run("enforces minimum delay between lookup starts", func(t *testing.T) {
		const (
			lookups  = 5
			minDelay = 100 * time.Millisecond
		)
		ctx := context.Background()

		// Slow lookups make the limiter release calls later than their slot.
		var starts []time.Time
		next := mocks.NewProvider(t)
		next.On("Geocode", mock.Anything, "Eiffelturm").
			Run(func(mock.Arguments) {
				starts = append(starts, time.Now())
				time.Sleep(30 * time.Millisecond)
			}).
			Return(&models.Coordinates{Latitude: 48.85826, Longitude: 2.294501}, nil).
			Times(lookups)

		provider := geocoding.NewRateLimitedProvider(next, minDelay)

		for idx := 0; idx < lookups; idx++ {
			if idx == 2 {
				time.Sleep(minDelay + 40*time.Millisecond)
			}
			_, err := provider.Geocode(ctx, "Eiffelturm")
			require.NoError(t, err)
		}

		require.Len(t, starts, lookups)
		for idx := 1; idx < len(starts); idx++ {
			gap := starts[idx].Sub(starts[idx-1])
			assert.GreaterOrEqual(t, gap, minDelay, "gap %d", idx)
		}
	})

	t.Run("cancelled context stops the remaining delay", func(t *testing.T) {
		next := mocks.NewProvider(t)
		next.On("Geocode", mock.Anything, "Louvre").Return(&models.Coordinates{}, nil).Once()

		provider := geocoding.NewRateLimitedProvider(next, time.Hour)
		_, err := provider.Geocode(context.Background(), "Louvre")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		start := time.Now()
		_, err = provider.Geocode(ctx, "Louvre")

		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("first lookup is not delayed", func(t *testing.T) {
		next := mocks.NewProvider(t)
		next.On("Geocode", mock.Anything, "Louvre").Return(nil, geocoding.ErrNotFound).Once()

		provider := geocoding.NewRateLimitedProvider(next, time.Hour)

		start := time.Now()
		_, err := provider.Geocode(context.Background(), "Louvre")

		require.ErrorIs(t, err, geocoding.ErrNotFound)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("zero delay disables the limit", func(t *testing.T) {
		next := mocks.NewProvider(t)
		next.On("Geocode", mock.Anything, "Louvre").Return(&models.Coordinates{}, nil).Times(3)

		provider := geocoding.NewRateLimitedProvider(next, 0)

		start := time.Now()
		for i := 0; i < 3; i++ {
			_, err := provider.Geocode(context.Background(), "Louvre")
			require.NoError(t, err)
		}

		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		next := mocks.NewProvider(t)
		next.On("Geocode", mock.Anything, "Louvre").Return(&models.Coordinates{}, nil).Once()

		provider := geocoding.NewRateLimitedProvider(next, time.Hour)
		_, err := provider.Geocode(context.Background(), "Louvre")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		coords, err := provider.Geocode(ctx, "Louvre")

		require.Error(t, err)
		assert.Nil(t, coords)
		assert.Contains(t, err.Error(), "rate limit wait")
	})
}

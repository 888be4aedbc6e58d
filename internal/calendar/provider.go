package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// ErrReload is returned when a holiday source fails; the previous snapshot stays active.
var ErrReload = errors.New("calendar: reload failed")

// HolidaySource supplies public holidays at load time.
type HolidaySource interface {
	ListHolidays(ctx context.Context) ([]time.Time, error)
}

// Provider holds the current calendar snapshot and swaps it atomically on Reload.
// Readers never block and always see a complete snapshot.
type Provider struct {
	current atomic.Pointer[Calendar]
	sources []HolidaySource
}

// NewProvider creates a provider that starts with a weekends-only calendar until the
// first Reload.
func NewProvider(sources ...HolidaySource) *Provider {
	p := &Provider{sources: sources}
	p.current.Store(New(nil))
	return p
}

// NewFixedProvider wraps a prebuilt calendar; used by tests and tools.
func NewFixedProvider(c *Calendar) *Provider {
	p := &Provider{}
	p.current.Store(c)
	return p
}

// Current returns the active snapshot.
func (p *Provider) Current() *Calendar {
	return p.current.Load()
}

// Reload rebuilds the snapshot from every source. On error nothing is swapped.
func (p *Provider) Reload(ctx context.Context) error {
	var holidays []time.Time
	for i, src := range p.sources {
		hs, err := src.ListHolidays(ctx)
		if err != nil {
			return fmt.Errorf("%w: source %d: %v", ErrReload, i, err)
		}
		holidays = append(holidays, hs...)
	}
	p.current.Store(New(holidays))
	return nil
}

// IsWorkingDay delegates to the current snapshot.
func (p *Provider) IsWorkingDay(d time.Time) bool {
	return p.Current().IsWorkingDay(d)
}

// AddWorkingDays delegates to the current snapshot.
func (p *Provider) AddWorkingDays(d time.Time, n int) time.Time {
	return p.Current().AddWorkingDays(d, n)
}

// StaticSource is a fixed list of holidays, typically from configuration.
type StaticSource []time.Time

// ListHolidays returns the fixed list.
func (s StaticSource) ListHolidays(ctx context.Context) ([]time.Time, error) {
	return []time.Time(s), nil
}

// ParseHolidays parses YYYY-MM-DD strings into a StaticSource.
func ParseHolidays(values []string) (StaticSource, error) {
	out := make(StaticSource, 0, len(values))
	for _, v := range values {
		d, err := domain.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("calendar: invalid holiday %q: %w", v, err)
		}
		out = append(out, d)
	}
	return out, nil
}

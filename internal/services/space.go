// Package services provides business logic
package services

import (
	"context"
	"encoding/json"
	"time"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/observability"

	"golang.org/x/sync/errgroup"
)

// Cache source names
const (
	SourceApod     = "apod"
	SourceLaunches = "launches"
)

// ImageFetcher fetches daily images by date or date range
type ImageFetcher interface {
	FetchAPOD(ctx context.Context, date string) (*domain.DailyImage, error)
	FetchAPODRange(ctx context.Context, start, end string) ([]domain.DailyImage, error)
}

// LaunchFetcher fetches the launches for a date
type LaunchFetcher interface {
	FetchLaunchesForDate(ctx context.Context, date string) ([]domain.LaunchRecord, error)
}

// EventSource is the static historical-event table
type EventSource interface {
	EventsOn(monthDay string) []domain.HistoricalEvent
	MonthlyEvents(month string) []domain.HistoricalEvent
}

// Cache stores upstream payloads by source and key.
// GetLatest returns nil, nil on a miss.
type Cache interface {
	Write(ctx context.Context, source, key string, payload json.RawMessage) error
	GetLatest(ctx context.Context, source, key string) (*domain.SpaceCache, error)
}

// SpaceService resolves everything the site shows for one selected date
type SpaceService struct {
	images      ImageFetcher
	launches    LaunchFetcher
	events      EventSource
	imageCache  Cache
	launchCache Cache
	retry       RetryPolicy
	now         func() time.Time
}

// Option configures a SpaceService
type Option func(*SpaceService)

// WithImageCache caches fetched daily images
func WithImageCache(c Cache) Option {
	return func(s *SpaceService) { s.imageCache = c }
}

// WithLaunchCache caches per-date launch lists
func WithLaunchCache(c Cache) Option {
	return func(s *SpaceService) { s.launchCache = c }
}

// WithRetryPolicy replaces the default retry policy
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *SpaceService) { s.retry = p }
}

// WithClock replaces time.Now; "today" is taken in the clock's location
func WithClock(now func() time.Time) Option {
	return func(s *SpaceService) { s.now = now }
}

// NewSpaceService creates a new space service
func NewSpaceService(images ImageFetcher, launches LaunchFetcher, events EventSource, opts ...Option) *SpaceService {
	s := &SpaceService{
		images:   images,
		launches: launches,
		events:   events,
		retry:    DefaultRetryPolicy(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar date in the service clock's location
func (s *SpaceService) Today() time.Time {
	return domain.StartOfDay(s.now())
}

// ValidateImageDate rejects dates before the first daily image and after the end of today
func (s *SpaceService) ValidateImageDate(date time.Time) error {
	day := domain.StartOfDay(date)
	first := time.Date(domain.FirstImageDate.Year(), domain.FirstImageDate.Month(), domain.FirstImageDate.Day(), 0, 0, 0, 0, day.Location())
	if day.Before(first) {
		return &domain.ValidationError{
			Field:   "date",
			Message: "NASA's Astronomy Picture of the Day service started on June 16, 1995. Please select a more recent date.",
		}
	}
	if day.After(domain.EndOfDay(s.now())) {
		return &domain.ValidationError{
			Field:   "date",
			Message: "Cannot fetch APOD for future dates. Please select today's date or earlier.",
		}
	}
	return nil
}

// ResolveDailyImage validates date, then serves the image from cache or the
// upstream API, retrying network-class failures.
func (s *SpaceService) ResolveDailyImage(ctx context.Context, date time.Time) (*domain.DailyImage, error) {
	if err := s.ValidateImageDate(date); err != nil {
		return nil, err
	}
	key := domain.FormatDate(date)

	var cached domain.DailyImage
	if s.readCache(ctx, s.imageCache, SourceApod, key, &cached) {
		return &cached, nil
	}

	image, err := Retry(ctx, s.retry, "apod", func(ctx context.Context) (*domain.DailyImage, error) {
		return s.images.FetchAPOD(ctx, key)
	})
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, s.imageCache, SourceApod, key, image)
	return image, nil
}

// ResolveImageRange returns every daily image from start to end inclusive.
// Range results are not cached.
func (s *SpaceService) ResolveImageRange(ctx context.Context, start, end time.Time) ([]domain.DailyImage, error) {
	if err := s.ValidateImageDate(start); err != nil {
		return nil, err
	}
	if err := s.ValidateImageDate(end); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &domain.ValidationError{
			Field:   "end",
			Message: "Invalid date range provided. Please check your start and end dates.",
		}
	}
	return Retry(ctx, s.retry, "apod_range", func(ctx context.Context) ([]domain.DailyImage, error) {
		return s.images.FetchAPODRange(ctx, domain.FormatDate(start), domain.FormatDate(end))
	})
}

// ResolveLaunches returns the launches on date. Failures degrade to an empty list.
func (s *SpaceService) ResolveLaunches(ctx context.Context, date time.Time) []domain.LaunchRecord {
	key := domain.FormatDate(date)

	var cached []domain.LaunchRecord
	if s.readCache(ctx, s.launchCache, SourceLaunches, key, &cached) {
		return cached
	}

	launches, err := s.launches.FetchLaunchesForDate(ctx, key)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("launches unavailable, continuing without them",
			"date", key, "error", err)
		return []domain.LaunchRecord{}
	}

	s.writeCache(ctx, s.launchCache, SourceLaunches, key, launches)
	return launches
}

// ResolveHistoricalEvents never fails and never returns an empty list
func (s *SpaceService) ResolveHistoricalEvents(date time.Time) []domain.HistoricalEvent {
	return HistoricalEvents(s.events, domain.MonthDay(date), date.Year())
}

// HistoricalEvents resolves a month-day key with three tiers: the dated
// entries, then the month's fallback entries, then one generic entry.
func HistoricalEvents(src EventSource, monthDay string, year int) []domain.HistoricalEvent {
	if events := src.EventsOn(monthDay); len(events) > 0 {
		return events
	}
	if len(monthDay) >= 2 {
		if events := src.MonthlyEvents(monthDay[:2]); len(events) > 0 {
			return events
		}
	}
	return []domain.HistoricalEvent{GenericEvent(monthDay, year)}
}

// GenericEvent is the entry used when nothing is recorded for a date or its month
func GenericEvent(monthDay string, year int) domain.HistoricalEvent {
	return domain.HistoricalEvent{
		Date:        monthDay,
		Title:       "Space Exploration Continues",
		Description: "While no specific historical events are recorded for this date, space exploration continues with ongoing missions and discoveries happening around the world.",
		Year:        year,
		Category:    "General",
	}
}

// ResolveTimeline returns launches and historical events for date
func (s *SpaceService) ResolveTimeline(ctx context.Context, date time.Time) *domain.Timeline {
	return &domain.Timeline{
		Date:     domain.FormatDate(date),
		Launches: s.ResolveLaunches(ctx, date),
		Events:   s.ResolveHistoricalEvents(date),
	}
}

// ResolveDay resolves the image and the timeline concurrently. An image
// failure is reported inside the snapshot and does not hide the timeline.
func (s *SpaceService) ResolveDay(ctx context.Context, date time.Time) *domain.DaySnapshot {
	snap := &domain.DaySnapshot{Date: domain.FormatDate(date)}

	var g errgroup.Group
	g.Go(func() error {
		image, err := s.ResolveDailyImage(ctx, date)
		if err != nil {
			snap.ImageError = domain.ToApiError(err)
			return nil
		}
		snap.Image = image
		return nil
	})
	g.Go(func() error {
		snap.Timeline = s.ResolveTimeline(ctx, date)
		return nil
	})
	_ = g.Wait()

	return snap
}

// FetchApod refreshes today's image into the cache
func (s *SpaceService) FetchApod(ctx context.Context) error {
	key := domain.FormatDate(s.Today())
	image, err := Retry(ctx, s.retry, "apod", func(ctx context.Context) (*domain.DailyImage, error) {
		return s.images.FetchAPOD(ctx, key)
	})
	if err != nil {
		return err
	}
	s.writeCache(ctx, s.imageCache, SourceApod, key, image)
	return nil
}

// FetchLaunches refreshes today's launches into the cache
func (s *SpaceService) FetchLaunches(ctx context.Context) error {
	key := domain.FormatDate(s.Today())
	launches, err := s.launches.FetchLaunchesForDate(ctx, key)
	if err != nil {
		return err
	}
	s.writeCache(ctx, s.launchCache, SourceLaunches, key, launches)
	return nil
}

func (s *SpaceService) readCache(ctx context.Context, c Cache, source, key string, out interface{}) bool {
	if c == nil {
		return false
	}
	entry, err := c.GetLatest(ctx, source, key)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("cache read failed", "source", source, "key", key, "error", err)
		return false
	}
	if entry == nil {
		return false
	}
	if err := json.Unmarshal(entry.Payload, out); err != nil {
		observability.LoggerFromContext(ctx).Warn("cache entry unreadable", "source", source, "key", key, "error", err)
		return false
	}
	return true
}

func (s *SpaceService) writeCache(ctx context.Context, c Cache, source, key string, v interface{}) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Write(ctx, source, key, payload); err != nil {
		observability.LoggerFromContext(ctx).Warn("cache write failed", "source", source, "key", key, "error", err)
	}
}

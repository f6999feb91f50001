package session

import (
	"context"
	"sync"
	"time"

	"go-akashdhara/internal/domain"
)

// Status of one asynchronously resolved part of the view
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Result is one part of the view as last applied
type Result[T any] struct {
	Status Status           `json:"status"`
	Data   T                `json:"data,omitempty"`
	Error  *domain.ApiError `json:"error,omitempty"`
}

// Resolver produces the date-scoped data shown in a view
type Resolver interface {
	ResolveDailyImage(ctx context.Context, date time.Time) (*domain.DailyImage, error)
	ResolveTimeline(ctx context.Context, date time.Time) *domain.Timeline
}

// View is the selected date and the results fetched for it. Every date
// selection starts a new generation; results from older generations are
// discarded when they arrive.
type View struct {
	mu         sync.Mutex
	base       context.Context
	resolver   Resolver
	date       time.Time
	generation uint64
	cancel     context.CancelFunc
	image      Result[*domain.DailyImage]
	timeline   Result[*domain.Timeline]
}

// ViewState is a consistent copy of a View
type ViewState struct {
	Date       string                     `json:"date"`
	Generation uint64                     `json:"generation"`
	Image      Result[*domain.DailyImage] `json:"image"`
	Timeline   Result[*domain.Timeline]   `json:"timeline"`
}

// NewView returns a view with nothing selected. Fetches run under base.
func NewView(base context.Context, resolver Resolver) *View {
	return &View{base: base, resolver: resolver}
}

// Select makes date current, cancels the previous generation's fetches and
// starts the image and timeline fetches. The returned channel is closed once
// both fetches have finished, whether their results were applied or dropped.
func (v *View) Select(date time.Time) (uint64, <-chan struct{}) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(v.base)
	v.generation++
	gen := v.generation
	v.date = date
	v.cancel = cancel
	v.image = Result[*domain.DailyImage]{Status: StatusPending}
	v.timeline = Result[*domain.Timeline]{Status: StatusPending}
	v.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		image, err := v.resolver.ResolveDailyImage(ctx, date)
		v.applyImage(gen, image, err)
	}()
	go func() {
		defer wg.Done()
		timeline := v.resolver.ResolveTimeline(ctx, date)
		v.applyTimeline(gen, timeline)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return gen, done
}

func (v *View) applyImage(gen uint64, image *domain.DailyImage, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return
	}
	if err != nil {
		v.image = Result[*domain.DailyImage]{Status: StatusError, Error: domain.ToApiError(err)}
		return
	}
	v.image = Result[*domain.DailyImage]{Status: StatusReady, Data: image}
}

func (v *View) applyTimeline(gen uint64, timeline *domain.Timeline) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return
	}
	v.timeline = Result[*domain.Timeline]{Status: StatusReady, Data: timeline}
}

// State returns a copy of the current view
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	state := ViewState{
		Generation: v.generation,
		Image:      v.image,
		Timeline:   v.timeline,
	}
	if !v.date.IsZero() {
		state.Date = domain.FormatDate(v.date)
	}
	return state
}

// Close cancels any in-flight fetches
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

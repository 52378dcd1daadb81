package generator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"catdistribution-api/internal/models"
	"catdistribution-api/internal/store"
	"catdistribution-api/internal/stream"
)

// Publisher pushes a payload to a named channel. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type RecordBuilder interface {
	Build(ctx context.Context) (models.Cat, error)
}

type Config struct {
	// Interval is the minimum delay between two ticks of a session. Zero runs
	// ticks back to back.
	Interval time.Duration
	// MaxConsecutiveFailures stops a session after that many failed ticks in
	// a row. Zero keeps the session running regardless.
	MaxConsecutiveFailures int
	// Results, when set, receives every tick result. Sends never block; a
	// full channel loses the result.
	Results chan<- TickResult
}

// Session is one generation run owned by a single user.
type Session struct {
	ID        uuid.UUID
	Owner     uuid.UUID
	StartedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	ticks       atomic.Int64
	failures    atomic.Int64
	consecutive atomic.Int64
}

func (s *Session) Ticks() int64    { return s.ticks.Load() }
func (s *Session) Failures() int64 { return s.failures.Load() }

// Done is closed once the session loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Controller runs at most one generation session at a time.
type Controller struct {
	cfg     Config
	builder RecordBuilder
	cats    store.CatRepository
	users   store.UserRepository
	pub     Publisher

	current atomic.Pointer[Session]
	wg      sync.WaitGroup
}

func NewController(cfg Config, b RecordBuilder, cats store.CatRepository, users store.UserRepository, pub Publisher) *Controller {
	return &Controller{cfg: cfg, builder: b, cats: cats, users: users, pub: pub}
}

// Start begins a session owned by userID. When a session is already active
// it is returned unchanged together with false.
func (c *Controller) Start(userID uuid.UUID) (*Session, bool) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        uuid.New(),
		Owner:     userID,
		StartedAt: time.Now().UTC(),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	if !c.current.CompareAndSwap(nil, s) {
		cancel()
		return c.current.Load(), false
	}

	sessionsActive.Inc()
	log.Info().Str("session", s.ID.String()).Str("owner", userID.String()).Msg("generation started")

	c.wg.Add(1)
	go c.run(s)
	return s, true
}

// Stop ends the active session. A tick already running finishes on its own.
func (c *Controller) Stop() bool {
	s := c.current.Swap(nil)
	if s == nil {
		return false
	}
	c.finish(s, "stopped")
	return true
}

func (c *Controller) IsActive() bool { return c.current.Load() != nil }

func (c *Controller) Current() *Session { return c.current.Load() }

// Wait blocks until every session loop started by c has returned.
func (c *Controller) Wait() { c.wg.Wait() }

func (c *Controller) finish(s *Session, reason string) {
	s.cancel()
	sessionsActive.Dec()
	log.Info().
		Str("session", s.ID.String()).
		Int64("ticks", s.Ticks()).
		Int64("failures", s.Failures()).
		Str("reason", reason).
		Msg("generation stopped")
}

func (c *Controller) run(s *Session) {
	defer c.wg.Done()
	defer close(s.done)

	var tick <-chan time.Time
	if c.cfg.Interval > 0 {
		t := time.NewTicker(c.cfg.Interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		if s.ctx.Err() != nil {
			return
		}

		res := c.Tick(s)
		c.report(s, res)

		if tick == nil {
			continue
		}
		select {
		case <-s.ctx.Done():
			return
		case <-tick:
		}
	}
}

// Tick performs one generate, persist and broadcast round for s. A session
// that is no longer current is skipped. A panic in any stage is recovered and
// reported as a failure of that stage.
func (c *Controller) Tick(s *Session) (res TickResult) {
	res = TickResult{Session: s.ID}
	if c.current.Load() != s || s.ctx.Err() != nil {
		res.Skipped = true
		return res
	}

	// the tick runs to completion even when the session is stopped meanwhile
	ctx := context.WithoutCancel(s.ctx)
	start := time.Now()
	stage := StageBuild
	defer func() { res.Duration = time.Since(start) }()
	defer func() {
		if r := recover(); r != nil {
			res.Err = &TickError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	cat, err := c.builder.Build(ctx)
	if err != nil {
		res.Err = &TickError{Stage: stage, Err: err}
		return res
	}

	stage = StageOwner
	owner, err := c.users.GetByID(ctx, s.Owner)
	if err != nil {
		res.Err = &TickError{Stage: stage, Err: fmt.Errorf("user %s: %w", s.Owner, err)}
		return res
	}
	cat.UserID = owner.ID
	if cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now().UTC()
	}

	stage = StagePersist
	saved, err := c.cats.Save(ctx, cat)
	if err != nil {
		res.Err = &TickError{Stage: stage, Err: err}
		return res
	}
	res.Cat = &saved

	stage = StagePublishCat
	if err := c.pub.Publish(ctx, stream.TopicCats, saved); err != nil {
		res.Err = &TickError{Stage: stage, Err: err}
		return res
	}

	stage = StageList
	all, err := c.cats.FindAll(ctx)
	if err != nil {
		res.Err = &TickError{Stage: stage, Err: err}
		return res
	}

	stage = StagePublishList
	if err := c.pub.Publish(ctx, stream.TopicCatsList, all); err != nil {
		res.Err = &TickError{Stage: stage, Err: err}
		return res
	}
	return res
}

func (c *Controller) report(s *Session, res TickResult) {
	observe(res)

	if c.cfg.Results != nil {
		select {
		case c.cfg.Results <- res:
		default:
		}
	}

	if res.Skipped {
		return
	}
	s.ticks.Add(1)
	if res.Err == nil {
		s.consecutive.Store(0)
		return
	}

	s.failures.Add(1)
	n := s.consecutive.Add(1)
	log.Error().Err(res.Err).Str("session", s.ID.String()).Int64("consecutive", n).Msg("tick failed")

	if limit := c.cfg.MaxConsecutiveFailures; limit > 0 && n >= int64(limit) {
		if c.current.CompareAndSwap(s, nil) {
			c.finish(s, "too many consecutive failures")
		}
	}
}

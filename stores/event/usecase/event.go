package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"
	"github.com/x-xyz/marketplace/base/backoff"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/goroutine"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
)

const (
	defaultJournalSize = 10000
	insertAttempts     = 5
)

type EventUseCaseCfg struct {
	// Repo, when set, stores every event and serves FindAll. Without it
	// the latest JournalSize events are kept in memory.
	Repo        event.Repo
	Handlers    []event.Handler
	Workers     int
	JournalSize int
	Clock       domain.Clock
	// InsertBackoff paces repo insert retries. Defaults to exponential
	// from 100ms up to 5s.
	InsertBackoff func() *backoff.Backoff
}

type queued struct {
	e      *event.Event
	logger log.Logger
}

type impl struct {
	repo          event.Repo
	handlers      []event.Handler
	workerPool    *goroutines.Pool
	now           domain.Clock
	insertBackoff func() *backoff.Backoff

	mu          sync.RWMutex
	journal     []*event.Event
	journalSize int

	qmu     sync.Mutex
	pending []queued
	wake    chan struct{}
}

func New(cfg *EventUseCaseCfg) event.UseCase {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	journalSize := cfg.JournalSize
	if journalSize <= 0 {
		journalSize = defaultJournalSize
	}
	insertBackoff := cfg.InsertBackoff
	if insertBackoff == nil {
		insertBackoff = func() *backoff.Backoff {
			return backoff.NewExponential(100*time.Millisecond, 5*time.Second)
		}
	}
	im := &impl{
		repo:          cfg.Repo,
		handlers:      cfg.Handlers,
		workerPool:    goroutines.NewPool(workers, goroutines.WithTaskQueueLength(1024)),
		now:           now,
		insertBackoff: insertBackoff,
		journalSize:   journalSize,
		wake:          make(chan struct{}, 1),
	}
	go im.pump()
	return im
}

// Emit records e and queues it for the repo and handlers. It never blocks
// on delivery, so engines may emit while holding their locks.
func (im *impl) Emit(c ctx.Ctx, source domain.Address, name event.Name, payload interface{}) {
	e := &event.Event{
		Id:      uuid.NewString(),
		Name:    name,
		Source:  source.ToLower(),
		Time:    im.now(),
		Payload: payload,
	}

	if im.repo == nil {
		im.mu.Lock()
		if len(im.journal) == im.journalSize {
			copy(im.journal, im.journal[1:])
			im.journal[len(im.journal)-1] = e
		} else {
			im.journal = append(im.journal, e)
		}
		im.mu.Unlock()
	}

	c.WithFields(log.Fields{
		"id":     e.Id,
		"name":   e.Name,
		"source": e.Source,
	}).Info("event emitted")

	if im.repo == nil && len(im.handlers) == 0 {
		return
	}

	im.qmu.Lock()
	im.pending = append(im.pending, queued{e: e, logger: c.Logger})
	im.qmu.Unlock()

	select {
	case im.wake <- struct{}{}:
	default:
	}
}

// pump hands queued events to the worker pool in emission order.
func (im *impl) pump() {
	for range im.wake {
		im.qmu.Lock()
		batch := im.pending
		im.pending = nil
		im.qmu.Unlock()

		for _, q := range batch {
			im.deliver(q)
		}
	}
}

func (im *impl) deliver(q queued) {
	// handlers outlive the operation that emitted
	bg := ctx.Ctx{Context: ctx.Background().Context, Logger: q.logger}
	e := q.e
	if im.repo != nil {
		im.dispatch(bg, e, "repo", func() error { return im.insert(bg, e) })
	}
	for _, h := range im.handlers {
		h := h
		im.dispatch(bg, e, "handler", func() error { return h.Handle(bg, e) })
	}
}

func (im *impl) insert(c ctx.Ctx, e *event.Event) error {
	attempt := 0
	return im.insertBackoff().Retry(c, insertAttempts, func() error {
		attempt++
		err := im.repo.Insert(c, e)
		if err != nil && attempt < insertAttempts {
			c.WithFields(log.Fields{
				"err":     err,
				"id":      e.Id,
				"attempt": attempt,
			}).Warn("repo.Insert failed, retrying")
		}
		return err
	})
}

func (im *impl) dispatch(c ctx.Ctx, e *event.Event, target string, fn func() error) {
	err := im.workerPool.Schedule(func() {
		goroutine.Recoverable(c, func() {
			if err := fn(); err != nil {
				c.WithFields(log.Fields{
					"err":    err,
					"id":     e.Id,
					"name":   e.Name,
					"target": target,
				}).Error("event dispatch failed")
			}
		})
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"id":     e.Id,
			"target": target,
		}).Error("workerPool.Schedule failed")
	}
}

func (im *impl) Journal(c ctx.Ctx) []*event.Event {
	im.mu.RLock()
	defer im.mu.RUnlock()
	res := make([]*event.Event, len(im.journal))
	copy(res, im.journal)
	return res
}

func (im *impl) FindAll(c ctx.Ctx, opts ...event.FindAllOptionsFunc) ([]*event.Event, error) {
	if im.repo != nil {
		return im.repo.FindAll(c, opts...)
	}

	options, err := event.GetFindAllOptions(opts...)
	if err != nil {
		c.WithField("err", err).Error("event.GetFindAllOptions failed")
		return nil, err
	}

	res := []*event.Event{}
	for _, e := range im.Journal(c) {
		if options.Name != nil && e.Name != *options.Name {
			continue
		}
		if options.Source != nil && e.Source != *options.Source {
			continue
		}
		res = append(res, e)
	}

	if options.Offset != nil {
		offset := int(*options.Offset)
		if offset > len(res) {
			offset = len(res)
		}
		res = res[offset:]
	}
	if options.Limit != nil && *options.Limit > 0 && int(*options.Limit) < len(res) {
		res = res[:*options.Limit]
	}
	return res, nil
}

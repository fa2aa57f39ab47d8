// Package laps records completed animation cycles to a SQLite database
package laps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lixenwraith/racecar/constants"
	"github.com/lixenwraith/racecar/engine"
)

const (
	// DefaultQueueSize bounds laps waiting for the writer
	DefaultQueueSize = constants.LapQueueSize

	maxBatch = 64
)

// ErrClosed is returned by queries on a closed recorder
var ErrClosed = errors.New("lap recorder closed")

// Recorder persists CycleEvents from the tick loop without blocking it
// CycleCompleted only enqueues; a single writer goroutine inserts in batches
type Recorder struct {
	db      *gorm.DB
	log     zerolog.Logger
	session string
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	events chan Lap
	flush  chan chan struct{}
	done   chan struct{}

	written atomic.Uint64
	dropped atomic.Uint64
}

// Open creates or opens the database at path and starts a new session
func Open(path string, log zerolog.Logger) (*Recorder, error) {
	if path == "" {
		return nil, fmt.Errorf("lap database path not set")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create lap database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        maxBatch,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open lap database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("lap database handle: %w", err)
	}
	// SQLite has a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Lap{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate lap table: %w", err)
	}

	r := &Recorder{
		db:      db,
		session: uuid.NewString(),
		now:     time.Now,
		events:  make(chan Lap, DefaultQueueSize),
		flush:   make(chan chan struct{}),
		done:    make(chan struct{}),
	}
	r.log = log.With().Str("component", "laps").Str("session", r.session).Logger()

	go r.run()

	r.log.Info().Str("path", path).Msg("lap recorder started")
	return r, nil
}

// Session returns the id stamped on every lap of this run
func (r *Recorder) Session() string {
	return r.session
}

// CycleCompleted queues the lap; drops it with a warning when the writer is behind
func (r *Recorder) CycleCompleted(ev engine.CycleEvent) {
	lap := Lap{
		Session:     r.session,
		Number:      ev.Number,
		Rate:        ev.Rate,
		Ticks:       ev.Ticks,
		ExitX:       ev.ExitPosition.LeftWheel.X,
		CompletedAt: r.now(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.dropped.Add(1)
		return
	}

	select {
	case r.events <- lap:
	default:
		r.dropped.Add(1)
		r.log.Warn().Uint64("cycle", ev.Number).Msg("lap queue full, dropping lap")
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	batch := make([]Lap, 0, maxBatch)
	for {
		select {
		case lap, ok := <-r.events:
			if !ok {
				return
			}
			batch = append(batch[:0], lap)
			batch = r.collect(batch)
			r.insert(batch)

		case ack := <-r.flush:
			for {
				batch = r.collect(batch[:0])
				if len(batch) == 0 {
					break
				}
				r.insert(batch)
			}
			close(ack)
		}
	}
}

// collect appends queued laps without blocking, up to maxBatch
func (r *Recorder) collect(batch []Lap) []Lap {
	for len(batch) < maxBatch {
		select {
		case lap, ok := <-r.events:
			if !ok {
				return batch
			}
			batch = append(batch, lap)
		default:
			return batch
		}
	}
	return batch
}

func (r *Recorder) insert(batch []Lap) {
	if len(batch) == 0 {
		return
	}
	if err := r.db.CreateInBatches(batch, maxBatch).Error; err != nil {
		r.log.Error().Err(err).Int("laps", len(batch)).Msg("failed to store laps")
		return
	}
	r.written.Add(uint64(len(batch)))
	r.log.Debug().Int("laps", len(batch)).Uint64("last", batch[len(batch)-1].Number).Msg("laps stored")
}

// Flush blocks until every lap queued before the call is stored
func (r *Recorder) Flush() {
	ack := make(chan struct{})
	select {
	case r.flush <- ack:
		<-ack
	case <-r.done:
	}
}

// Recent returns up to n laps of this session, newest first
func (r *Recorder) Recent(n int) ([]Lap, error) {
	if r.isClosed() {
		return nil, ErrClosed
	}
	var laps []Lap
	err := r.db.Where("session = ?", r.session).Order("number desc").Limit(n).Find(&laps).Error
	if err != nil {
		return nil, fmt.Errorf("query recent laps: %w", err)
	}
	return laps, nil
}

// Count returns the number of stored laps of this session
func (r *Recorder) Count() (int64, error) {
	return r.count(r.db.Where("session = ?", r.session))
}

// Total returns the number of stored laps across all sessions
func (r *Recorder) Total() (int64, error) {
	return r.count(r.db)
}

func (r *Recorder) count(q *gorm.DB) (int64, error) {
	if r.isClosed() {
		return 0, ErrClosed
	}
	var n int64
	if err := q.Model(&Lap{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count laps: %w", err)
	}
	return n, nil
}

// Written returns laps stored by this recorder
func (r *Recorder) Written() uint64 {
	return r.written.Load()
}

// Dropped returns laps discarded because the queue was full or the recorder closed
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

func (r *Recorder) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// Close stores pending laps, stops the writer and closes the database
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()

	<-r.done

	r.log.Info().
		Uint64("written", r.written.Load()).
		Uint64("dropped", r.dropped.Load()).
		Msg("lap recorder stopped")

	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

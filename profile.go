package mirasdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Mood Profile persistence: best-effort load, async flush
// ──────────────────────────────────────────────

// DefaultProfileKey is the record name holding the serialized MoodProfile.
const DefaultProfileKey = "mood_profile"

// MoodProfile is the persisted session summary.
type MoodProfile struct {
	History         []MoodHistoryEntry `json:"history" jsonschema:"maxItems=20"`
	Trendline       *MoodTrendline     `json:"trendline,omitempty"`
	DominantMood    Mood               `json:"dominant_mood" jsonschema:"enum=chill,enum=playful,enum=reflective"`
	SessionLengthMs int64              `json:"session_length_ms"`
	LastUpdated     time.Time          `json:"last_updated"`
}

// PersisterConfig controls the background flush pipeline.
type PersisterConfig struct {
	Key         string        // record key, default "mood_profile"
	QueueSize   int           // buffered channel capacity, default 16
	SaveTimeout time.Duration // per-write deadline, default 5s
}

// DefaultPersisterConfig returns production defaults.
func DefaultPersisterConfig() PersisterConfig {
	return PersisterConfig{
		Key:         DefaultProfileKey,
		QueueSize:   16,
		SaveTimeout: 5 * time.Second,
	}
}

type saveJob struct {
	Namespace string
	Profile   MoodProfile
	done      chan error // set by SaveOrdered
}

// SaveResult is emitted after each background write completes.
type SaveResult struct {
	Namespace string
	Err       error
}

// ProfilePersister loads profiles and flushes them off the hot path.
// Failures are logged and swallowed; callers never see them.
type ProfilePersister struct {
	store  KVStore
	config PersisterConfig
	queue  chan saveJob
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	// OnResult is called (from the worker goroutine) after each write.
	// May be nil.
	OnResult func(SaveResult)
}

// NewProfilePersister starts the flush worker. Call Close to drain it.
func NewProfilePersister(store KVStore, config ...PersisterConfig) *ProfilePersister {
	cfg := DefaultPersisterConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Key == "" {
		cfg.Key = DefaultProfileKey
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 5 * time.Second
	}
	p := &ProfilePersister{
		store:  store,
		config: cfg,
		queue:  make(chan saveJob, cfg.QueueSize),
	}
	p.wg.Add(1)
	go p.worker()
	return p
}

// Load returns the stored profile, or false when none is usable. Missing,
// unreadable and malformed records all degrade to "no profile".
func (p *ProfilePersister) Load(ctx context.Context, namespace string) (*MoodProfile, bool) {
	raw, err := p.store.Get(ctx, namespace, p.config.Key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[ProfilePersister] Load failed for ns=%s: %v", namespace, err)
		}
		return nil, false
	}
	profile, err := decodeProfile(raw)
	if err != nil {
		log.Printf("[ProfilePersister] Discarding malformed profile for ns=%s: %v", namespace, err)
		return nil, false
	}
	return profile, true
}

func decodeProfile(raw string) (*MoodProfile, error) {
	var profile MoodProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, err
	}
	for i, h := range profile.History {
		if !h.Mood.Valid() {
			return nil, fmt.Errorf("history[%d]: invalid mood %q", i, h.Mood)
		}
	}
	if profile.DominantMood != "" && !profile.DominantMood.Valid() {
		return nil, fmt.Errorf("invalid dominant mood %q", profile.DominantMood)
	}
	if n := len(profile.History); n > defaultPersistedHistory {
		profile.History = profile.History[n-defaultPersistedHistory:]
	}
	return &profile, nil
}

// Save writes the profile synchronously.
func (p *ProfilePersister) Save(ctx context.Context, namespace string, profile MoodProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := p.store.Set(ctx, namespace, p.config.Key, string(data)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}

// SaveAsync enqueues a write. Non-blocking; drops if the queue is full or
// the persister is closed. Returns true if enqueued.
func (p *ProfilePersister) SaveAsync(namespace string, profile MoodProfile) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- saveJob{Namespace: namespace, Profile: profile}:
		return true
	default:
		log.Printf("[ProfilePersister] Queue full, dropping flush for ns=%s", namespace)
		return false
	}
}

// SaveOrdered queues a write behind every pending SaveAsync job and waits
// for it, so an older snapshot can never land after this one. After Close
// the queue is drained and the write goes straight to the store.
func (p *ProfilePersister) SaveOrdered(ctx context.Context, namespace string, profile MoodProfile) error {
	done := make(chan error, 1)
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return p.Save(ctx, namespace, profile)
	}
	select {
	case p.queue <- saveJob{Namespace: namespace, Profile: profile, done: done}:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of writes waiting in the queue.
func (p *ProfilePersister) Pending() int {
	return len(p.queue)
}

// Close drains queued writes and stops the worker. The store is left open.
func (p *ProfilePersister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *ProfilePersister) worker() {
	defer p.wg.Done()
	for job := range p.queue {
		p.processJob(job)
	}
}

func (p *ProfilePersister) processJob(job saveJob) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.SaveTimeout)
	defer cancel()

	err := p.Save(ctx, job.Namespace, job.Profile)
	if err != nil {
		log.Printf("[ProfilePersister] Flush failed for ns=%s: %v", job.Namespace, err)
	}
	if job.done != nil {
		job.done <- err
	}
	if p.OnResult != nil {
		p.OnResult(SaveResult{Namespace: job.Namespace, Err: err})
	}
}

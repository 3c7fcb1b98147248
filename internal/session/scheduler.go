package session

import (
	"errors"
	"io"
	"sync"
	"time"

	"fbconsole/internal/providers"
	"fbconsole/internal/session/interfaces"
	"fbconsole/internal/structures"

	"github.com/roylee0704/gron"
)

const evictInterval = time.Minute

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	store       Store
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

// persistent reports whether sessions live in process memory and a snapshot
// path is configured.
func (s *Scheduler) persistent() bool {
	_, ok := s.store.(Snapshotter)
	return ok && s.config.Session.FilePath != ""
}

func (s *Scheduler) Init() {
	snap, ok := s.store.(Snapshotter)
	if !ok {
		return
	}
	s.cron = gron.New()

	if s.persistent() && s.config.Session.SaveInterval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Session.SaveInterval), func() {
			if err := s.Persist(); err == nil {
				s.logger.Debugf(providers.TypeApp, "Persisted sessions to %s", s.config.Session.FilePath)
			}
		})
	}

	s.cron.AddFunc(gron.Every(evictInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if n := snap.EvictIdle(time.Now()); n > 0 {
			s.logger.Infof(providers.TypeApp, "Evicted %d idle sessions", n)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if !s.persistent() {
		return nil
	}
	return s.fileManager.LoadFromFile(s.config.Session.FilePath)
}

func (s *Scheduler) Persist() error {
	if !s.persistent() {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Session.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil && !errors.Is(err, ErrNotSnapshotter) {
		s.logger.Errorf(providers.TypeApp, "Error while persisting sessions: %s", err)
		return err
	}
	return nil
}

// Close releases the snapshot compressor and the store connection. Call it
// after the last Persist.
func (s *Scheduler) Close() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.fileManager.Close()
	if closer, ok := s.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store Store, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		store:       store,
		fileManager: fileManager,
		metrics:     metrics,
	}
}

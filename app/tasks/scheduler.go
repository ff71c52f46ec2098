package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/event-comb/app/cfg"
	"github.com/lysyi3m/event-comb/app/database"
	"github.com/lysyi3m/event-comb/app/event"
	"github.com/lysyi3m/event-comb/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceRepo  database.SourceRepository
	eventRepo   database.EventRepository
	configCache *source.ConfigCache
	httpClient  *http.Client
	parser      FeedParserInterface
	filterer    FiltererInterface
	extractor   DescriptionExtractorInterface
	processor   event.ProcessorInterface
	userAgent   string
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(configCache *source.ConfigCache, sourceRepo database.SourceRepository,
	eventRepo database.EventRepository, httpClient *http.Client, parser FeedParserInterface,
	filterer FiltererInterface, extractor DescriptionExtractorInterface, processor event.ProcessorInterface) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceRepo:  sourceRepo,
		eventRepo:   eventRepo,
		configCache: configCache,
		httpClient:  httpClient,
		parser:      parser,
		filterer:    filterer,
		extractor:   extractor,
		processor:   processor,
		userAgent:   cfg.UserAgent,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// NewCollectTask builds a collect task wired to the scheduler's dependencies.
func (s *Scheduler) NewCollectTask(sourceConfig *source.Config) *CollectSourceTask {
	return NewCollectSourceTask(sourceConfig.Name, sourceConfig, s.httpClient, s.parser, s.filterer, s.extractor,
		s.processor, s.sourceRepo, s.eventRepo, s.userAgent)
}

func (s *Scheduler) enqueueStartupTasks() {
	sourceConfigs := s.configCache.GetConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		syncTask := NewSyncSourceConfigTask(sourceConfig.Name, sourceConfig, s.sourceRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceConfigTask", "source", sourceConfig.Name, "error", err)
			continue
		}

		if !sourceConfig.Settings.Enabled {
			slog.Debug("Source disabled, skipping CollectSourceTask", "source", sourceConfig.Name)
			continue
		}

		if err := s.EnqueueTask(s.NewCollectTask(sourceConfig)); err != nil {
			slog.Warn("Failed to enqueue CollectSourceTask", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Processing enabled source configurations for task scheduling", "count", len(sourceConfigs))

	now := time.Now().UTC()
	for _, sourceConfig := range sourceConfigs {
		stored, err := s.sourceRepo.GetSource(sourceConfig.Name)
		if errors.Is(err, database.ErrNotFound) {
			slog.Warn("Source not found in database, skipping", "source", sourceConfig.Name)
			continue
		}
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", sourceConfig.Name, "error", err)
			continue
		}

		if stored.NextFetchAt != nil && stored.NextFetchAt.After(now) {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name, "next_fetch_at", stored.NextFetchAt)
			continue
		}

		if err := s.EnqueueTask(s.NewCollectTask(sourceConfig)); err != nil {
			slog.Warn("Failed to enqueue CollectSourceTask", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, task.Timeout())
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	go func() {
		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		}

		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
		}
	}()
}

// retryDelay doubles from one second per attempt, capped at 30 seconds.
func retryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	if retryCount > 6 {
		return 30 * time.Second
	}
	delay := time.Duration(1<<uint(retryCount-1)) * time.Second
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}

package background

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"merchconsole/internal/services"
)

// JobScheduler runs the console's periodic maintenance jobs
type JobScheduler struct {
	scheduler   gocron.Scheduler
	categorySvc services.CategoryService
	tenants     []uuid.UUID
	interval    time.Duration
	log         zerolog.Logger
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a scheduler that keeps the category tree cache of
// the given tenants warm
func NewJobScheduler(categorySvc services.CategoryService, tenants []uuid.UUID, interval time.Duration, log zerolog.Logger, opts ...gocron.SchedulerOption) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		categorySvc: categorySvc,
		tenants:     tenants,
		interval:    interval,
		log:         log,
		jobs:        make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() error {
	if len(js.tenants) == 0 || js.interval <= 0 {
		return nil
	}
	warmJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.WarmCategoryCache, context.Background()),
		gocron.WithName("category-cache-warm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}
	js.mu.Lock()
	js.jobs["category-cache-warm"] = warmJob
	js.mu.Unlock()
	return nil
}

// WarmCategoryCache reloads the category tree of every configured tenant.
// One tenant failing does not stop the others.
func (js *JobScheduler) WarmCategoryCache(ctx context.Context) int {
	refreshed := 0
	for _, tenantID := range js.tenants {
		if err := js.categorySvc.Refresh(ctx, tenantID); err != nil {
			js.log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("failed to warm category cache")
			continue
		}
		refreshed++
	}
	js.log.Debug().Int("tenants", refreshed).Msg("category cache warmed")
	return refreshed
}

// Jobs returns the names of the registered jobs
func (js *JobScheduler) Jobs() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

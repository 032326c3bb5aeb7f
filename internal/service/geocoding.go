package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/cartograph/internal/geocoding"
	"github.com/UnknownOlympus/cartograph/internal/metrics"
	"github.com/UnknownOlympus/cartograph/internal/models"
	"github.com/UnknownOlympus/cartograph/internal/repository"
	"golang.org/x/time/rate"
)

// errNoMatches is stored on tasks for which the provider found nothing.
var errNoMatches = errors.New("no matches found")

// Options tunes the polling loop of a GeocodingService.
type Options struct {
	Workers       int           // Number of concurrent workers for processing
	PollInterval  time.Duration // Interval for polling pending tasks
	BatchSize     int           // Maximum number of tasks fetched per poll
	AddressPrefix string        // Prefix added to every address (indicating country, city, etc.)
	Limiter       *rate.Limiter // Shared limiter for provider calls, nil disables limiting
}

// GeocodingService periodically fetches pending tasks from the repository and
// resolves their addresses through a geocoding provider using a worker pool.
type GeocodingService struct {
	log      *slog.Logger         // Logger for logging service activities
	repo     repository.Interface // Interface for data repository access
	provider geocoding.Provider   // Geocoding provider for external geocoding services
	metrics  *metrics.Metrics     // Metrics for tracking service performance
	opts     Options
}

// NewGeocodingService creates a new instance of GeocodingService.
func NewGeocodingService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	metrics *metrics.Metrics,
	opts Options,
) *GeocodingService {
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &GeocodingService{
		log:      log,
		repo:     repo,
		provider: provider,
		metrics:  metrics,
		opts:     opts,
	}
}

// Run starts the geocoding service, which periodically polls for new tasks to geocode.
// It listens for a cancellation signal from the context to gracefully stop the service.
func (gs *GeocodingService) Run(ctx context.Context) {
	ticker := time.NewTicker(gs.opts.PollInterval)
	defer ticker.Stop()

	gs.log.InfoContext(ctx, "Geocoding service started...", "provider", gs.provider.Name())

	for {
		select {
		case <-ctx.Done():
			gs.log.InfoContext(ctx, "Geocoding service stopped.")
			return
		case <-ticker.C:
			gs.log.InfoContext(ctx, "Polling for new tasks to geocode...")
			gs.processTasks(ctx)
		}
	}
}

// processTasks fetches tasks for geocoding from the repository, starts a worker pool to process the tasks,
// and waits for all workers to finish.
func (gs *GeocodingService) processTasks(ctx context.Context) {
	tasks, err := gs.repo.FetchTasksForGeocoding(ctx, gs.opts.BatchSize)
	if err != nil {
		gs.log.ErrorContext(ctx, "Failed to fetch tasks", "error", err)
		return
	}
	if len(tasks) == 0 {
		gs.log.InfoContext(ctx, "No tasks to process.")
		return
	}

	gs.log.InfoContext(
		ctx,
		"Found tasks to process. Starting worker pool.",
		"jobs", len(tasks),
		"num_workers", gs.opts.Workers,
	)

	jobs := make(chan models.Task, len(tasks))
	var wgr sync.WaitGroup

	for i := 1; i <= gs.opts.Workers; i++ {
		wgr.Add(1)
		go gs.worker(ctx, i, &wgr, jobs)
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	wgr.Wait()
	gs.log.InfoContext(ctx, "Processing batch finished")
}

// worker processes tasks from the jobs channel until it is closed.
func (gs *GeocodingService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Task) {
	defer wg.Done()
	for task := range jobs {
		gs.metrics.ActiveWorkers.Inc()
		gs.log.DebugContext(ctx, "Processing task", "worker", idx, "task", task.ID)

		status, err := gs.processTask(ctx, task)
		gs.metrics.TaskProcessed.WithLabelValues(status).Inc()
		if err != nil {
			gs.log.ErrorContext(ctx, "Task processing failed", "worker", idx, "task", task.ID, "error", err)
		} else {
			gs.log.DebugContext(ctx, "Worker processed the task", "worker", idx, "task", task.ID, "status", status)
		}

		gs.metrics.ActiveWorkers.Dec()
	}
}

// processTask geocodes a single task and records the outcome in the repository.
// It returns the outcome label and the repository error, if any.
func (gs *GeocodingService) processTask(ctx context.Context, task models.Task) (string, error) {
	if err := gs.opts.Limiter.Wait(ctx); err != nil {
		return metrics.StatusFailure, fmt.Errorf("rate limit exceeded: %w", err)
	}

	startTime := time.Now()
	addresses, err := gs.provider.Geocode(ctx, geocoding.GeocodeQuery{
		Text:  gs.opts.AddressPrefix + task.Address,
		Limit: 1,
	})
	gs.metrics.RequestSeconds.WithLabelValues(gs.provider.Name()).Observe(time.Since(startTime).Seconds())

	switch {
	case errors.Is(err, geocoding.ErrInvalidInput), errors.Is(err, geocoding.ErrUnsupportedOperation):
		gs.log.WarnContext(ctx, "Task address can not be geocoded", "task", task.ID, "error", err)
		return metrics.StatusUnresolvable, gs.repo.MarkUnresolvable(ctx, task.ID, err.Error())
	case err != nil:
		gs.log.ErrorContext(ctx, "Failed to geocode", "task", task.ID, "error", err)
		gs.metrics.APIErrors.WithLabelValues(gs.provider.Name()).Inc()
		return metrics.StatusFailure, gs.repo.IncrementFailureCount(ctx, task.ID, err.Error())
	case len(addresses) == 0:
		gs.log.InfoContext(ctx, "No matches for task address", "task", task.ID)
		return metrics.StatusNoMatch, gs.repo.IncrementFailureCount(ctx, task.ID, errNoMatches.Error())
	}

	return metrics.StatusSuccess, gs.repo.UpdateTaskAddress(ctx, task.ID, addresses[0])
}

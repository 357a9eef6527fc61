package work

import (
	"fmt"

	"github.com/go-co-op/gocron"
	"github.com/pcea-st-andrews/stands-ims/server/cron"
	"github.com/pcea-st-andrews/stands-ims/server/models"
	"github.com/pkg/errors"
)

const MAX_CONCURRENCY = 1

// WorkerPoolAdapter ties the worker pool, the requeuers & the cron
// scheduler together behind one start/stop surface.
type WorkerPoolAdapter struct {
	cronScheduler      *gocron.Scheduler
	pool               *workerPool
	inProgressRequeuer *requeuer
	scheduledRequeuer  *requeuer
}

func NewWorkerAdapter(timeZoneArg string) *WorkerPoolAdapter {
	inProgressRequeuer, err := newRequeuer(models.IN_PROGRESS_JOB)
	if err != nil {
		logg.Panic(err)
	}

	scheduledRequeuer, err := newRequeuer(models.SCHEDULED_JOB)
	if err != nil {
		logg.Panic(err)
	}

	return &WorkerPoolAdapter{
		cronScheduler:      cron.NewCronScheduler(timeZoneArg),
		pool:               newWorkerPool(MAX_CONCURRENCY),
		inProgressRequeuer: inProgressRequeuer,
		scheduledRequeuer:  scheduledRequeuer,
	}
}

// Start starts the cron scheduler, requeuers & worker pool
func (adapter *WorkerPoolAdapter) Start() {
	logg.Info("Starting cron scheduler & worker pool")
	adapter.cronScheduler.StartAsync()
	adapter.inProgressRequeuer.start()
	adapter.scheduledRequeuer.start()
	adapter.pool.start()
}

// Stop stops the cron scheduler, requeuers & worker pool
func (adapter *WorkerPoolAdapter) Stop() {
	logg.Info("Stopping cron scheduler & worker pool")
	adapter.cronScheduler.Stop()
	adapter.inProgressRequeuer.stop()
	adapter.scheduledRequeuer.stop()
	adapter.pool.stop()
}

// Register binds a name to a handler.
func (adapter *WorkerPoolAdapter) Register(name string, handler Handler) error {
	return adapter.pool.registerHandler(name, handler)
}

// Perform sends a new job to the queue, to be executed as soon as a worker is available
func (adapter *WorkerPoolAdapter) Perform(job JobParams) error {
	logg.Infof("Enqueuing job: %v", job.Name)

	err := adapter.pool.enqueue(job)
	if errors.Is(err, models.ErrDuplicateJob) {
		logg.Warnf("Duplicate job already in queue for: %v", job.Name)
		return nil
	}

	if err != nil {
		return fmt.Errorf("error enqueuing job: %v, %v", job.Name, err)
	}

	return nil
}

// PerformIn schedules a job to be performed 'secondsInFuture' seconds from now
func (adapter *WorkerPoolAdapter) PerformIn(secondsInFuture int64, job JobParams) error {
	return adapter.pool.enqueueIn(secondsInFuture, job)
}

// PeriodicallyPerform adds a job to the queue (to be executed)
// periodically, based on the 'cronExpression' expression provided
func (adapter *WorkerPoolAdapter) PeriodicallyPerform(cronExpression string, job JobParams) error {
	_, err := adapter.cronScheduler.Cron(cronExpression).Tag(job.Name).
		Do(
			func(job JobParams) {
				err := adapter.Perform(job)
				if err != nil {
					logg.Error(err)
				}
			},
			job,
		)

	return err
}

func (adapter *WorkerPoolAdapter) RemovePeriodicJob(jobName string) {
	adapter.cronScheduler.RemoveByTag(jobName)
}

package services

import (
	"fmt"
	"sync"
	"time"

	"ids-dashboard/backend/system"

	"github.com/google/uuid"
)

// Job states. Queued and running are transient; done and failed are
// terminal — a terminal job record is only ever read afterwards.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// progressStride is how many records the replay worker processes between
// progress publishes. Publishing on every record would serialize the worker
// behind the registry lock and contend with status pollers.
const progressStride = 25

// ReplayJob tracks one dataset-replay execution. Records stay queryable
// until process restart; the registry never evicts.
type ReplayJob struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Filename  string    `json:"filename"`
	TotalRows int       `json:"total_rows"`
	Processed int       `json:"processed"`
	Benign    int       `json:"benign"`
	Attack    int       `json:"attack"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReplayService owns replay-job lifecycles: it admits jobs, runs the
// background worker and answers status queries. The registry has its own
// lock, disjoint from the stats lock, so status polls never block ingestion.
type ReplayService struct {
	gate     *MonitoringGate
	arbiter  *SourceArbiter
	pipeline *IngestionPipeline

	mu   sync.RWMutex
	jobs map[string]*ReplayJob

	webhookMu sync.RWMutex
	webhook   *WebhookService
}

func NewReplayService(gate *MonitoringGate, arbiter *SourceArbiter, pipeline *IngestionPipeline) *ReplayService {
	return &ReplayService{
		gate:     gate,
		arbiter:  arbiter,
		pipeline: pipeline,
		jobs:     make(map[string]*ReplayJob),
	}
}

// SetWebhook connects completion/failure notifications.
func (s *ReplayService) SetWebhook(webhook *WebhookService) {
	s.webhookMu.Lock()
	defer s.webhookMu.Unlock()
	s.webhook = webhook
}

// Submit admits a replay job and returns its record immediately; the
// caller polls Status for progress. At most one job may be active at a
// time: admitting a second would let its cleanup clobber the first job's
// arbiter restore.
func (s *ReplayService) Submit(records []FlowRecord, filename string, maxRows int, delay time.Duration) (ReplayJob, error) {
	if err := s.gate.RequireRunning(); err != nil {
		return ReplayJob{}, err
	}

	total := len(records)
	if maxRows > 0 && maxRows < total {
		total = maxRows
	}

	s.mu.Lock()
	for _, job := range s.jobs {
		if job.Status == JobQueued || job.Status == JobRunning {
			s.mu.Unlock()
			return ReplayJob{}, newError(KindConflict, "replay job %s is still %s", job.ID, job.Status)
		}
	}

	now := time.Now()
	job := &ReplayJob{
		ID:        uuid.NewString(),
		Status:    JobQueued,
		Filename:  filename,
		TotalRows: total,
		Message:   "Queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	snapshot := *job
	s.mu.Unlock()

	system.Info("Replay job %s queued: %s (%d rows)", job.ID, filename, total)
	go s.run(job.ID, records[:total], delay)

	return snapshot, nil
}

// Status returns a copy of the job record, or NotFound.
func (s *ReplayService) Status(id string) (ReplayJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return ReplayJob{}, newError(KindNotFound, "unknown replay job: %s", id)
	}
	return *job, nil
}

// JobCounts returns how many jobs sit in each state.
func (s *ReplayService) JobCounts() map[JobStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[JobStatus]int, 4)
	for _, job := range s.jobs {
		counts[job.Status]++
	}
	return counts
}

// update applies a mutation to the job record under the registry lock and
// stamps UpdatedAt. Returns a copy of the updated record.
func (s *ReplayService) update(id string, fn func(*ReplayJob)) ReplayJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ReplayJob{}
	}
	fn(job)
	job.UpdatedAt = time.Now()
	return *job
}

// run drives one replay job. It takes over the source arbiter for its
// duration and restores the previous mode on every exit path; if the
// restore fails the arbiter is forced back to live rather than left in an
// unknown state.
func (s *ReplayService) run(id string, rows []FlowRecord, delay time.Duration) {
	processed, benign, attack := 0, 0, 0

	defer func() {
		if r := recover(); r != nil {
			system.Error("Replay job %s panicked: %v", id, r)
			s.finish(id, JobFailed, processed, benign, attack, fmt.Sprintf("Replay worker failure: %v", r))
		}
	}()

	prevMode := s.arbiter.Get()
	if _, err := s.arbiter.Set(SourceDataset); err != nil {
		s.finish(id, JobFailed, 0, 0, 0, fmt.Sprintf("Could not take over traffic source: %v", err))
		return
	}
	defer func() {
		if _, err := s.arbiter.Set(prevMode); err != nil {
			system.Warn("Replay job %s could not restore source %q, forcing live: %v", id, prevMode, err)
			s.arbiter.ForceLive()
		}
	}()

	s.update(id, func(j *ReplayJob) {
		j.Status = JobRunning
		j.Message = "Processing dataset"
	})

	for i, row := range rows {
		// Cooperative cancellation point: a record already in flight
		// completes before a stop is observed.
		if !s.gate.Status().Running {
			s.finish(id, JobFailed, processed, benign, attack, "Monitoring stopped during dataset test")
			return
		}

		event, err := s.pipeline.Ingest(SourceDataset, row)
		if err != nil {
			if kind, ok := KindOf(err); ok && kind == KindPreconditionFailed {
				s.finish(id, JobFailed, processed, benign, attack, "Monitoring stopped during dataset test")
				return
			}
			s.finish(id, JobFailed, processed, benign, attack, fmt.Sprintf("Row %d failed: %v", i+1, err))
			return
		}

		processed++
		if event.Label == LabelBenign {
			benign++
		} else {
			attack++
		}

		if processed%progressStride == 0 {
			s.update(id, func(j *ReplayJob) {
				j.Processed = processed
				j.Benign = benign
				j.Attack = attack
				j.Message = fmt.Sprintf("Processed %d/%d rows", processed, len(rows))
			})
		}

		// Optional pacing between records, never under a lock.
		if delay > 0 && i < len(rows)-1 {
			time.Sleep(delay)
		}
	}

	s.finish(id, JobDone, processed, benign, attack,
		fmt.Sprintf("Dataset test complete: %d rows (%d benign, %d attack)", processed, benign, attack))
}

// finish records a terminal state and notifies the webhook if configured.
func (s *ReplayService) finish(id string, status JobStatus, processed, benign, attack int, message string) {
	job := s.update(id, func(j *ReplayJob) {
		j.Status = status
		j.Processed = processed
		j.Benign = benign
		j.Attack = attack
		j.Message = message
	})

	if status == JobDone {
		system.Info("Replay job %s done: %s", id, message)
	} else {
		system.Warn("Replay job %s failed: %s", id, message)
	}

	s.webhookMu.RLock()
	webhook := s.webhook
	s.webhookMu.RUnlock()
	if webhook != nil {
		go webhook.SendReplayResult(job)
	}
}

// Package scheduler runs the periodic background jobs: the aggregate audit
// and the Slack standings digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"

	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/notifier"
)

const jobTimeout = 2 * time.Minute

// League is the part of the league service the jobs depend on.
type League interface {
	Reconcile(ctx context.Context, repair bool) (*league.ReconcileReport, error)
	Standings(ctx context.Context) ([]model.Player, error)
}

type Scheduler struct {
	sched    gocron.Scheduler
	league   League
	notifier notifier.Notifier
	dryRun   bool
}

// New creates a stopped scheduler. notifier may be nil when Slack is not configured.
func New(l League, n notifier.Notifier, dryRun bool, options ...gocron.SchedulerOption) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(options...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{sched: sched, league: l, notifier: n, dryRun: dryRun}, nil
}

// ScheduleReconcile audits aggregates every interval, starting immediately.
func (s *Scheduler) ScheduleReconcile(interval time.Duration, repair bool) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.reconcile, repair),
		gocron.WithName("reconcile"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule reconcile: %w", err)
	}
	log.Info("Scheduled aggregate reconcile", "interval", interval, "repair", repair)
	return nil
}

// ScheduleStandingsDigest posts the league table to Slack on a cron schedule.
func (s *Scheduler) ScheduleStandingsDigest(crontab string) error {
	if s.notifier == nil {
		return fmt.Errorf("schedule standings digest: no notifier configured")
	}
	_, err := s.sched.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(s.postStandings),
		gocron.WithName("standings-digest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule standings digest: %w", err)
	}
	log.Info("Scheduled standings digest", "cron", crontab)
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) reconcile(repair bool) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.league.Reconcile(ctx, repair)
	if err != nil {
		log.Error("[Scheduler] Reconcile failed", "error", err)
		return
	}
	if len(report.Drift) > 0 {
		log.Warn("[Scheduler] Aggregates drifted from match log", "players", len(report.Drift), "repaired", report.Repaired)
	}
}

func (s *Scheduler) postStandings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	players, err := s.league.Standings(ctx)
	if err != nil {
		log.Error("[Scheduler] Failed to load standings", "error", err)
		return
	}
	if err := s.notifier.SendStandings(players, s.dryRun); err != nil {
		log.Error("[Scheduler] Failed to post standings", "error", err)
	}
}

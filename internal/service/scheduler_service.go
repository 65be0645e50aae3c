package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"focusflow/internal/log"
	"focusflow/internal/model"
)

// DigestSchedule says when digests go out: once a day at Daily ("HH:MM"),
// every Every, or both. The zero value schedules nothing.
type DigestSchedule struct {
	Daily string
	Every time.Duration
}

func (d DigestSchedule) Empty() bool {
	return strings.TrimSpace(d.Daily) == "" && d.Every <= 0
}

// SchedulerService runs the digest jobs on cron.
type SchedulerService struct {
	cron *cron.Cron
	runs atomic.Int64
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	logger := cronLogger{}
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// ScheduleDigest registers job for every trigger in sched.
func (s *SchedulerService) ScheduleDigest(sched DigestSchedule, job func()) error {
	if daily := strings.TrimSpace(sched.Daily); daily != "" {
		spec, err := dailySpec(daily)
		if err != nil {
			return fmt.Errorf("schedule daily digest: %w", err)
		}
		if _, err := s.cron.AddJob(spec, s.track("daily "+daily, job)); err != nil {
			return fmt.Errorf("schedule daily digest: %w", err)
		}
	}
	if sched.Every > 0 {
		every := sched.Every.Truncate(time.Second)
		if every < time.Second {
			every = time.Second
		}
		s.cron.Schedule(cron.Every(every), s.track("every "+every.String(), job))
	} else if sched.Every < 0 {
		return fmt.Errorf("schedule digest interval: %s is negative", sched.Every)
	}
	return nil
}

// track logs each run so a silent scheduler shows up in the logs.
func (s *SchedulerService) track(name string, job func()) cron.FuncJob {
	return func() {
		n := s.runs.Add(1)
		log.Info("digest job", "trigger", name, "run", n)
		job()
	}
}

// Len is the number of registered triggers.
func (s *SchedulerService) Len() int {
	return len(s.cron.Entries())
}

// Runs counts job executions since start.
func (s *SchedulerService) Runs() int64 {
	return s.runs.Load()
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *SchedulerService) Stop() {
	<-s.cron.Stop().Done()
}

// dailySpec turns "HH:MM" (single-digit hours allowed) into a five-field
// cron spec.
func dailySpec(hhmm string) (string, error) {
	if len(hhmm) == 4 && hhmm[1] == ':' {
		hhmm = "0" + hhmm
	}
	if !model.IsClock(hhmm) {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	at, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour()), nil
}

// cronLogger routes cron's own messages through the leveled logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error("cron: "+msg, err, keysAndValues...)
}

package evaluator

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/stats"
)

// CommandFormatter renders Telegram command replies.
type CommandFormatter interface {
	Formatter
	FormatPending(signals []*model.Signal) string
	FormatStats(sum stats.Summary) string
	FormatBankroll(state model.BankrollState) string
}

// Scheduler runs evaluation passes on a cron schedule and answers
// Telegram commands.
type Scheduler struct {
	Cron    *cron.Cron
	Service *Service
	Ctx     context.Context
	fmt     CommandFormatter
}

func NewScheduler(ctx context.Context, svc *Service, f CommandFormatter) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Service: svc,
		Ctx:     ctx,
		fmt:     f,
	}
}

// Register schedules the evaluation pass.
func (s *Scheduler) Register(cronExpr string) error {
	if _, err := s.Cron.AddFunc(cronExpr, func() {
		if _, err := s.Service.RunPass(s.Ctx); err != nil {
			log.Error().Err(err).Msg("evaluation pass failed")
		}
	}); err != nil {
		return fmt.Errorf("register evaluation pass: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes a pass immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	if _, err := s.Service.RunPass(s.Ctx); err != nil {
		log.Error().Err(err).Msg("manual evaluation pass failed")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		go s.RunNow()
		return "Evaluation pass started."
	case "/pending":
		pending, err := s.Service.store.Pending()
		if err != nil {
			return fmt.Sprintf("Failed to load pending signals: %v", err)
		}
		return s.fmt.FormatPending(pending)
	case "/stats":
		all, err := s.Service.store.List(0)
		if err != nil {
			return fmt.Sprintf("Failed to load signals: %v", err)
		}
		return s.fmt.FormatStats(stats.Summarize(all))
	case "/bankroll":
		if s.Service.bank == nil {
			return "Bankroll tracking is disabled."
		}
		return s.fmt.FormatBankroll(s.Service.bank.State())
	default:
		return "Commands:\n/run — evaluate pending signals now\n/pending — list pending signals\n/stats — performance summary\n/bankroll — bankroll status"
	}
}

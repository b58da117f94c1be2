package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/tutorbot/pkg/models"
)

// Notifier delivers the daily due-vocab reminder to a user.
type Notifier interface {
	SendDueReminder(profile *models.UserProfile, due []*models.Vocab) error
}

// profileStore is the slice of the profile repository the scheduler needs.
type profileStore interface {
	All() ([]*models.UserProfile, error)
	Set(profile *models.UserProfile) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	store     profileStore
	refresher *Refresher
}

// New creates a new scheduler instance
func New(notifier Notifier, store profileStore, refresher *Refresher) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		store:     store,
		refresher: refresher,
	}
}

// Start schedules the daily reminder at the given hour and begins running
// in the background.
func (s *Scheduler) Start(reminderHour int) error {
	at := fmt.Sprintf("%02d:00", reminderHour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.runDailyReminders); err != nil {
		return fmt.Errorf("failed to schedule daily reminders: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runDailyReminders notifies every user with due vocabs and then refreshes
// their quiz pools. A failure for one user never blocks the rest.
func (s *Scheduler) runDailyReminders() {
	profiles, err := s.store.All()
	if err != nil {
		log.Printf("scheduler: failed to list profiles: %v", err)
		return
	}

	for _, profile := range profiles {
		if err := s.remindUser(profile); err != nil {
			log.Printf("scheduler: reminder for user %d failed: %v", profile.UserID, err)
		}
	}
}

func (s *Scheduler) remindUser(profile *models.UserProfile) error {
	due := profile.Vocabs.DueVocabs(maxDueVocabs, time.Now())
	if len(due) == 0 {
		return nil
	}

	if err := s.notifier.SendDueReminder(profile, due); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	added, err := s.refresher.RefreshVocabQuizzes(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to refresh vocab quizzes: %w", err)
	}
	if added == 0 {
		return nil
	}
	if err := s.store.Set(profile); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

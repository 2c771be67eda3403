package services

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/notify"
	"github.com/stwalsh4118/rms/internal/repository"
)

// ReminderService e-mails tenants whose rent falls due.
type ReminderService interface {
	// SendDueRentReminders mails every active tenant due on date and returns
	// how many reminders went out. It stops at the first delivery failure;
	// reminders already sent stay sent.
	SendDueRentReminders(ctx context.Context, date time.Time) (int, error)
}

type reminderService struct {
	tenants repository.TenantRepository
	mailer  notify.Mailer
	log     *logger.Logger
}

// NewReminderService creates a new instance of ReminderService.
func NewReminderService(tenants repository.TenantRepository, mailer notify.Mailer, log *logger.Logger) ReminderService {
	return &reminderService{tenants: tenants, mailer: mailer, log: log}
}

func (s *reminderService) SendDueRentReminders(ctx context.Context, date time.Time) (int, error) {
	due, err := s.tenants.ListDueOn(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list tenants due: %w", err)
	}

	sent := 0
	for _, pl := range due {
		msg := notify.FormatDueRentEmail(notify.DueRent{
			DueDate:    pl.Tenant.RentDueDate,
			Email:      pl.Tenant.Email,
			TenantName: pl.Tenant.Name,
			RoomNo:     pl.RoomNo,
			RentAmount: pl.RentAmount,
		})
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Error("Failed to send rent reminder", err, logger.Fields{
				"tenant_id": pl.Tenant.ID.String(),
				"sent":      sent,
			})
			return sent, fmt.Errorf("reminder for tenant %s: %w", pl.Tenant.ID, err)
		}
		sent++
	}

	s.log.Info("Rent reminders sent", logger.Fields{
		"date":  models.FormatDate(date),
		"count": sent,
	})
	return sent, nil
}

package service

import (
	"fmt"
	"log"
	"time"

	"spotshare/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteElapsedBookings finds confirmed bookings whose end time has
// passed and marks them completed.
func (s *JobService) CompleteElapsedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	bookingIDs, err := s.Repo.GetConfirmedBookingIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed bookings past end time: %w", err)
	}

	if len(bookingIDs) == 0 {
		log.Println("Cron Job: No confirmed bookings found past their end time.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'. IDs: %v", len(bookingIDs), bookingIDs)

	if err := s.Repo.UpdateBookingStatuses(bookingIDs, "completed"); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}

	log.Printf("Cron Job: Successfully updated %d bookings to 'completed'.", len(bookingIDs))
	return nil
}

// PurgeStalePendingBookings deletes pending bookings whose checkout was
// abandoned before the given cutoff.
func (s *JobService) PurgeStalePendingBookings(before time.Time) (int64, error) {
	return s.Repo.DeletePendingBookingsOlderThan(before)
}

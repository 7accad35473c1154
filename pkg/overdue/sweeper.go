// Package overdue transitions loans past their due date to OVERDUE and
// keeps their fines current until the book comes back.
package overdue

import (
	"log"
	"math"
	"time"

	"github.com/GuillermoVar/Tarea2BDD2/pkg/models"
	"github.com/GuillermoVar/Tarea2BDD2/pkg/rules"
	"gorm.io/gorm"
)

type Sweeper struct {
	db       *gorm.DB
	interval time.Duration
	stop     chan struct{}
}

func NewSweeper(db *gorm.DB, interval time.Duration) *Sweeper {
	return &Sweeper{
		db:       db,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the sweep loop in the background until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				count, err := s.Sweep(time.Now())
				if err != nil {
					log.Printf("Overdue sweep failed: %v", err)
					continue
				}
				if count > 0 {
					log.Printf("Overdue sweep updated %d loans", count)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	close(s.stop)
}

// Sweep marks every unreturned loan whose due date has passed as OVERDUE
// and sets its fine as of now. Repeated sweeps refresh the fine.
func (s *Sweeper) Sweep(now time.Time) (int, error) {
	var loans []models.Loan
	err := s.db.
		Where("status IN ?", []string{models.LoanStatusActive, models.LoanStatusOverdue}).
		Where("return_dt IS NULL").
		Where("due_date < ?", startOfDay(now)).
		Find(&loans).Error
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range loans {
		fine := Fine(loans[i].DueDate, now)
		err := s.db.Model(&loans[i]).Updates(map[string]interface{}{
			"status":      models.LoanStatusOverdue,
			"fine_amount": fine,
		}).Error
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// Fine is the amount owed on a loan due at dueDate and still out at asOf,
// rounded to cents. Zero when the due date has not passed.
func Fine(dueDate, asOf time.Time) float64 {
	days := daysBetween(dueDate, asOf)
	if days <= 0 {
		return 0
	}
	return math.Round(float64(days)*rules.FineDailyRate*100) / 100
}

// daysBetween counts calendar days from one date to another. The dates are
// re-anchored in UTC so a DST transition between them cannot shave a day off.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

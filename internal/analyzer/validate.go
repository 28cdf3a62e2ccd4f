package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/naka-gawa/github-year-review/internal/domain"
)

var (
	// ErrNegativeCount is returned when a day carries a negative contribution count.
	ErrNegativeCount = errors.New("negative contribution count")
	// ErrDuplicateDate is returned when the same calendar day appears twice.
	ErrDuplicateDate = errors.New("duplicate contribution date")
)

// Validate reports whether the dataset satisfies the analyzer's preconditions.
// The analysis functions do not call it; callers that receive data from an
// untrusted source should.
func Validate(dataset domain.ContributionDataset) error {
	seen := make(map[time.Time]struct{}, len(dataset))
	for _, day := range dataset {
		date := domain.CalendarDate(day.Date)
		if day.Count < 0 {
			return fmt.Errorf("%w: %d on %s", ErrNegativeCount, day.Count, date.Format(domain.DateLayout))
		}
		if _, ok := seen[date]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDate, date.Format(domain.DateLayout))
		}
		seen[date] = struct{}{}
	}
	return nil
}

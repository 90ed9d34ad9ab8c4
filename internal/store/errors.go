package store

import (
	"errors"
	"fmt"
	"strings"
)

// Expected business outcomes. Callers surface these directly and restart
// the user flow; none of them is retried.
var (
	ErrInvalidDateRange      = errors.New("check_out must be after check_in")
	ErrPastDate              = errors.New("stay dates must not be in the past")
	ErrRoomTypeNotFound      = errors.New("room type not found")
	ErrInsufficientInventory = errors.New("insufficient inventory for the requested dates")
	ErrHoldNotFound          = errors.New("hold not found")
	ErrHoldAlreadyResolved   = errors.New("hold already resolved")
	ErrHoldExpired           = errors.New("hold expired")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingNotPending     = errors.New("booking is not awaiting payment")
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled")
	ErrAllotmentBelowDemand  = errors.New("allotment below existing demand")

	// ErrBusy signals transient lock contention after bounded retries.
	// Unlike the errors above, callers may retry the request.
	ErrBusy = errors.New("temporarily busy, please retry")
)

// AllotmentConflict describes one date whose existing demand exceeds a
// requested allotment.
type AllotmentConflict struct {
	Date           string `json:"date"`
	BookedCount    int    `json:"booked_count"`
	TentativeCount int    `json:"tentative_count"`
}

// AllotmentError reports every date that blocks an allotment reduction so
// the admin UI can show which bookings are in the way.
type AllotmentError struct {
	Requested int
	Conflicts []AllotmentConflict
}

func (e *AllotmentError) Error() string {
	dates := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		dates[i] = fmt.Sprintf("%s (booked %d, tentative %d)", c.Date, c.BookedCount, c.TentativeCount)
	}
	return fmt.Sprintf("allotment %d below existing demand on: %s", e.Requested, strings.Join(dates, ", "))
}

func (e *AllotmentError) Is(target error) bool {
	return target == ErrAllotmentBelowDemand
}

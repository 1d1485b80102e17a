package domain

import "fmt"

// TimeLedger tracks the free time left for visits after anchor-to-anchor travel.
// Committed free time never drops below zero: debits that would not leave a
// positive balance are rejected before anything changes.
type TimeLedger struct {
	capacitySeconds int
	freeSeconds     int
}

// NewTimeLedger starts a ledger with all of its capacity free.
func NewTimeLedger(capacitySeconds int) (*TimeLedger, error) {
	if capacitySeconds < 0 {
		return nil, fmt.Errorf("new time ledger: capacity=%ds: %w", capacitySeconds, ErrInvalidCapacity)
	}
	return &TimeLedger{capacitySeconds: capacitySeconds, freeSeconds: capacitySeconds}, nil
}

// TryDebit commits the debit only when strictly positive free time would remain.
// Zero-cost stops are always accepted.
func (l *TimeLedger) TryDebit(amountSeconds int) (newFree int, ok bool) {
	if amountSeconds == 0 {
		return l.freeSeconds, true
	}
	if l.freeSeconds-amountSeconds <= 0 {
		return l.freeSeconds, false
	}
	l.freeSeconds -= amountSeconds
	return l.freeSeconds, true
}

// Credit returns time to the ledger when a stop is removed.
func (l *TimeLedger) Credit(amountSeconds int) int {
	l.freeSeconds += amountSeconds
	return l.freeSeconds
}

func (l *TimeLedger) FreeSeconds() int { return l.freeSeconds }

func (l *TimeLedger) CapacitySeconds() int { return l.capacitySeconds }

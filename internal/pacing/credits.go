// File: internal/pacing/credits.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Present credit accounting. Credits are the server-granted permission
// units that flow-control frame submissions.

package pacing

// CreditTracker counts how many outstanding frame submissions the
// server currently permits. Never negative. Not safe for concurrent
// use; all access happens on the dispatcher thread.
type CreditTracker struct {
	credits uint32
}

// NewCreditTracker returns a tracker holding the server's initial grant.
func NewCreditTracker(initial uint32) *CreditTracker {
	return &CreditTracker{credits: initial}
}

// Grant adds n credits from a replenishment event.
func (t *CreditTracker) Grant(n uint32) {
	t.credits += n
}

// Consume spends one credit for a dispatched submission. Consuming at
// zero is a programmer error: the session handle must gate submissions
// on HasCredit before dispatching.
func (t *CreditTracker) Consume() {
	if t.credits == 0 {
		panic("pacing: credit consumed at zero")
	}
	t.credits--
}

// HasCredit reports whether a submission may be dispatched now.
func (t *CreditTracker) HasCredit() bool {
	return t.credits > 0
}

// Available returns the current credit count.
func (t *CreditTracker) Available() uint32 {
	return t.credits
}

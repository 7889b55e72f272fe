package entity

// OrderStatus is the lifecycle state of an order. Only admins move orders
// between states, one step forward at a time; cancellation is reachable
// from any non-terminal state and is absorbing.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// timeline lists the non-cancelled states in order of progression.
var timeline = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusShipped,
	StatusDelivered,
}

var nextStatus = map[OrderStatus]OrderStatus{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusShipped,
	StatusShipped:   StatusDelivered,
}

// Valid reports whether s names a known status.
func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	for _, st := range timeline {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the move from s to next is legal:
// a single forward step along the timeline, or cancellation of any
// non-terminal order.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return nextStatus[s] == next
}

// TimelinePosition returns the zero-based position of s among the five
// non-cancelled states. Cancelled orders have no timeline position and are
// rendered as a terminal banner instead.
func TimelinePosition(s OrderStatus) (int, bool) {
	for i, st := range timeline {
		if st == s {
			return i, true
		}
	}
	return 0, false
}

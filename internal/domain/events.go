package domain

import "time"

// EventType names a domain event published after a committed mutation
type EventType string

const (
	EventBookingProvisionallyMade EventType = "accommodation.booking.provisionally-made"
	EventBookingConfirmed         EventType = "accommodation.booking.confirmed"
	EventBookingArrived           EventType = "accommodation.booking.arrived"
	EventBookingDeparted          EventType = "accommodation.booking.departed"
	EventBookingCancelled         EventType = "accommodation.booking.cancelled"
	EventBookingNotArrived        EventType = "accommodation.booking.not-arrived"
	EventBookingDatesChanged      EventType = "accommodation.booking.dates-changed"
	EventBookingTurnaroundChanged EventType = "accommodation.booking.turnaround-changed"
	EventVoidCreated              EventType = "accommodation.void.created"
	EventVoidCancelled            EventType = "accommodation.void.cancelled"
)

// Event is a domain event envelope. Payload is serialized as JSON by the publisher.
type Event struct {
	Type        EventType
	AggregateID int64
	CRN         string
	BedspaceID  int64
	OccurredAt  time.Time
	Payload     map[string]interface{}
}

// NewBookingEvent builds an event about a booking
func NewBookingEvent(t EventType, b *Booking, occurredAt time.Time) Event {
	return Event{
		Type:        t,
		AggregateID: b.ID,
		CRN:         b.CRN,
		BedspaceID:  b.BedspaceID,
		OccurredAt:  occurredAt,
		Payload: map[string]interface{}{
			"bookingId":     b.ID,
			"premisesId":    b.PremisesID,
			"arrivalDate":   b.ArrivalDate.Format(DateFormat),
			"departureDate": b.DepartureDate.Format(DateFormat),
			"status":        string(b.Status),
		},
	}
}

// NewVoidEvent builds an event about a void period
func NewVoidEvent(t EventType, v *VoidPeriod, occurredAt time.Time) Event {
	return Event{
		Type:        t,
		AggregateID: v.ID,
		BedspaceID:  v.BedspaceID,
		OccurredAt:  occurredAt,
		Payload: map[string]interface{}{
			"voidId":    v.ID,
			"startDate": v.StartDate.Format(DateFormat),
			"endDate":   v.EndDate.Format(DateFormat),
			"reason":    v.Reason,
		},
	}
}

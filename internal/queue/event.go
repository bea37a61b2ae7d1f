// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckInRecordedEvent is published whenever a guest checks in or out at
// the door. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type CheckInRecordedEvent struct {
	EntryID     uint64 `json:"entry_id"`
	GuestName   string `json:"guest_name"`
	TableNumber int    `json:"table_number"`
	TableLabel  string `json:"table_label,omitempty"`
	SeatIndex   int    `json:"seat_index"`
	Action      string `json:"action"` // "check_in" or "check_out"
	StaffID     uint64 `json:"staff_id"`
	RecordedAt  string `json:"recorded_at"`
}

// Package models contains data structures for the application's domain models.
package models

// WfhStatus represents the lifecycle state of a recurring request or of a
// single WFH record. The same vocabulary is shared by both levels.
type WfhStatus string

const (
	// StatusPending indicates a request or record awaiting manager action.
	StatusPending WfhStatus = "Pending"
	// StatusApproved indicates an approved request or record.
	StatusApproved WfhStatus = "Approved"
	// StatusRejected indicates a rejected request or record. Terminal.
	StatusRejected WfhStatus = "Rejected"
	// StatusWithdrawn indicates a withdrawn request or record. Terminal.
	StatusWithdrawn WfhStatus = "Withdrawn"
	// StatusPendingWithdrawal indicates a staff-initiated withdrawal awaiting manager action.
	StatusPendingWithdrawal WfhStatus = "PendingWithdrawal"
	// StatusPendingChange indicates a staff-initiated date change awaiting manager action.
	StatusPendingChange WfhStatus = "PendingChange"
)

// ActiveStatuses are the states that count as live WFH commitments for
// overlap checks.
var ActiveStatuses = []WfhStatus{
	StatusPending,
	StatusApproved,
	StatusPendingChange,
	StatusPendingWithdrawal,
}

// Valid reports whether s is one of the defined statuses.
func (s WfhStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusWithdrawn,
		StatusPendingWithdrawal, StatusPendingChange:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are defined from s.
func (s WfhStatus) Terminal() bool {
	return s == StatusRejected || s == StatusWithdrawn
}

// Timeslot represents the portion of a day covered by a WFH arrangement.
type Timeslot string

const (
	// TimeslotAM covers the morning half-day.
	TimeslotAM Timeslot = "AM"
	// TimeslotPM covers the afternoon half-day.
	TimeslotPM Timeslot = "PM"
	// TimeslotFullDay covers the whole working day.
	TimeslotFullDay Timeslot = "FD"
)

// Valid reports whether t is one of AM, PM or FD.
func (t Timeslot) Valid() bool {
	return t == TimeslotAM || t == TimeslotPM || t == TimeslotFullDay
}

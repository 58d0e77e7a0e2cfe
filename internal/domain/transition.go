package domain

import "time"

// Reminder offsets applied when a record enters a status. A shorter offset
// means the record should be re-checked sooner.
const (
	FollowUpReminderOffset   = 3 * 24 * time.Hour
	ScheduledReminderOffset  = 1 * 24 * time.Hour
	NoResponseReminderOffset = 14 * 24 * time.Hour
)

// StatusMutation describes the record fields a status change rewrites.
type StatusMutation struct {
	Status              Status
	ReminderDate        *time.Time
	ReplyDate           *time.Time
	NotificationEnabled bool
	// ClearNotificationStamp resets last_notification_sent_at so the record
	// becomes eligible for reminder selection again.
	ClearNotificationStamp bool
}

// ApplyStatusTransition maps a target status to the derived reminder date and
// notification flag. It is total over the status enum and deterministic for a
// fixed now. An out-of-enum status is set verbatim with no date mutation.
func ApplyStatusTransition(newStatus Status, now time.Time, reminderDays int) StatusMutation {
	if reminderDays <= 0 {
		reminderDays = DefaultReminderDays
	}

	m := StatusMutation{Status: newStatus}

	switch newStatus {
	case StatusPending:
		due := now.Add(time.Duration(reminderDays) * 24 * time.Hour)
		m.ReminderDate = &due
		m.NotificationEnabled = true
	case StatusFollowUp:
		due := now.Add(FollowUpReminderOffset)
		m.ReminderDate = &due
		m.NotificationEnabled = true
	case StatusScheduled:
		due := now.Add(ScheduledReminderOffset)
		m.ReminderDate = &due
		m.NotificationEnabled = true
	case StatusNoResponse:
		due := now.Add(NoResponseReminderOffset)
		m.ReminderDate = &due
		m.NotificationEnabled = true
	case StatusReplied:
		reply := now
		m.ReplyDate = &reply
		m.NotificationEnabled = false
		m.ClearNotificationStamp = true
	case StatusRejected:
		m.NotificationEnabled = false
	}

	return m
}

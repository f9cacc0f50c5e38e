package model

import "time"

type NotificationKind string

const (
	NotificationParticipationCreated     NotificationKind = "participation_created"
	NotificationParticipationReactivated NotificationKind = "participation_reactivated"
	NotificationParticipationAccepted    NotificationKind = "participation_accepted"
	NotificationParticipationRejected    NotificationKind = "participation_rejected"
	NotificationParticipationCancelled   NotificationKind = "participation_cancelled"
)

type Notification struct {
	ID        int              `json:"id" db:"id"`
	RequestID string           `json:"-" db:"request_id"`
	UserID    int              `json:"user_id" db:"user_id"`
	EventID   int              `json:"event_id" db:"event_id"`
	Kind      NotificationKind `json:"kind" db:"kind"`
	Message   string           `json:"message" db:"message"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// ParticipationNotice 報名狀態變更後送進隊列的訊息
type ParticipationNotice struct {
	RequestID       string           `json:"request_id"`
	ParticipationID int              `json:"participation_id"`
	EventID         int              `json:"event_id"`
	EventTitle      string           `json:"event_title"`
	ParticipantID   int              `json:"participant_id"`
	OrganizerID     int              `json:"organizer_id"`
	Kind            NotificationKind `json:"kind"`
	OccurredAt      time.Time        `json:"occurred_at"`
}

// Recipient 主辦人收到報名/取消通知，參加者收到審核結果
func (n *ParticipationNotice) Recipient() int {
	switch n.Kind {
	case NotificationParticipationAccepted, NotificationParticipationRejected:
		return n.ParticipantID
	default:
		return n.OrganizerID
	}
}

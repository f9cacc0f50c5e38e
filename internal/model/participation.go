package model

import "time"

// ParticipationStatus 報名狀態類型
type ParticipationStatus string

const (
	ParticipationStatusPending   ParticipationStatus = "pending"
	ParticipationStatusAccepted  ParticipationStatus = "accepted"
	ParticipationStatusRejected  ParticipationStatus = "rejected"
	ParticipationStatusCancelled ParticipationStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s ParticipationStatus) IsValid() bool {
	switch s {
	case ParticipationStatusPending, ParticipationStatusAccepted,
		ParticipationStatusRejected, ParticipationStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s ParticipationStatus) CanTransitionTo(target ParticipationStatus) bool {
	transitions := map[ParticipationStatus][]ParticipationStatus{
		ParticipationStatusPending:   {ParticipationStatusAccepted, ParticipationStatusRejected, ParticipationStatusCancelled},
		ParticipationStatusAccepted:  {ParticipationStatusRejected, ParticipationStatusCancelled},
		ParticipationStatusRejected:  {ParticipationStatusAccepted},
		ParticipationStatusCancelled: {ParticipationStatusAccepted},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

type Participation struct {
	ID            int                 `json:"id" db:"id"`
	EventID       int                 `json:"event_id" db:"event_id"`
	ParticipantID int                 `json:"participant_id" db:"participant_id"`
	Status        ParticipationStatus `json:"status" db:"status"`
	Comments      string              `json:"comments" db:"comments"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`

	Participant *User `json:"participant,omitempty" db:"-"`
}

// ParticipationOutcome 報名請求的結果分類
type ParticipationOutcome string

const (
	OutcomeCreated              ParticipationOutcome = "created"
	OutcomeReactivated          ParticipationOutcome = "reactivated"
	OutcomeAlreadyParticipating ParticipationOutcome = "already_participating"
	OutcomeAlreadyPending       ParticipationOutcome = "already_pending"
	OutcomePreviouslyRejected   ParticipationOutcome = "previously_rejected"
	OutcomeUnchanged            ParticipationOutcome = "unchanged"
	OutcomeCancelled            ParticipationOutcome = "cancelled"
	OutcomeAccepted             ParticipationOutcome = "accepted"
	OutcomeRejected             ParticipationOutcome = "rejected"
)

// Changed 是否有寫入資料
func (o ParticipationOutcome) Changed() bool {
	switch o {
	case OutcomeCreated, OutcomeReactivated, OutcomeCancelled, OutcomeAccepted, OutcomeRejected:
		return true
	}
	return false
}

// MessageID 對應 i18n 訊息 key
func (o ParticipationOutcome) MessageID() string {
	return "participation.outcome." + string(o)
}

// NoticeKind 有寫入的結果對應的通知類型；未寫入時回傳 false
func (o ParticipationOutcome) NoticeKind() (NotificationKind, bool) {
	switch o {
	case OutcomeCreated:
		return NotificationParticipationCreated, true
	case OutcomeReactivated:
		return NotificationParticipationReactivated, true
	case OutcomeCancelled:
		return NotificationParticipationCancelled, true
	case OutcomeAccepted:
		return NotificationParticipationAccepted, true
	case OutcomeRejected:
		return NotificationParticipationRejected, true
	}
	return "", false
}

type ParticipationResult struct {
	Participation *Participation       `json:"participation"`
	Status        ParticipationStatus  `json:"status"`
	Outcome       ParticipationOutcome `json:"outcome"`
}

package event

import (
	"encoding/json"
	"reflect"
	"time"

	"gorm.io/datatypes"
)

type Type string

const (
	ContractCreated     Type = "CONTRACT_CREATED"
	ContractScored      Type = "CONTRACT_SCORED"
	ContractActivated   Type = "CONTRACT_ACTIVATED"
	ContractVerified    Type = "CONTRACT_VERIFIED"
	ContractSettled     Type = "CONTRACT_SETTLED"
	ContractCancelled   Type = "CONTRACT_CANCELLED"
	ContractDisputed    Type = "CONTRACT_DISPUTED"
	ProofSubmitted      Type = "PROOF_SUBMITTED"
	ManualReviewDone    Type = "MANUAL_REVIEW_COMPLETED"
	ScheduleCreated     Type = "PAYMENT_SCHEDULE_CREATED"
	PaymentCreated      Type = "PAYMENT_CREATED"
	PaymentStatusChange Type = "PAYMENT_STATUS_CHANGED"
	PaymentCompleted    Type = "PAYMENT_COMPLETED"
	PaymentFailed       Type = "PAYMENT_FAILED"
	PaymentReminder     Type = "PAYMENT_REMINDER"
	MilestoneReached    Type = "MILESTONE_REACHED"
	PoolCreated         Type = "POOL_CREATED"
	PoolInvestment      Type = "POOL_INVESTMENT"
	PoolRedemption      Type = "POOL_REDEMPTION"
	NAVUpdated          Type = "NAV_UPDATED"
	ExposureCreated     Type = "EXPOSURE_CREATED"
	ExposureSettled     Type = "EXPOSURE_SETTLED"
	ExposureDefaulted   Type = "EXPOSURE_DEFAULTED"
	ExposureRecovery    Type = "EXPOSURE_RECOVERY"
)

// Event is an immutable audit record.
type Event struct {
	ID         uint64         `gorm:"primaryKey;column:id" json:"-"`
	EventID    string         `gorm:"column:event_id;size:32;uniqueIndex:ux_events_event_id" json:"event_id"`
	Type       Type           `gorm:"column:type;size:40;not null;index:idx_events_type" json:"type"`
	ContractID string         `gorm:"column:contract_id;size:32;index:idx_events_contract" json:"contract_id,omitempty"`
	PoolID     string         `gorm:"column:pool_id;size:32;index:idx_events_pool" json:"pool_id,omitempty"`
	ActorID    string         `gorm:"column:actor_id;size:32" json:"actor_id,omitempty"`
	Metadata   datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "events" }

type ArtifactType string

const (
	ArtifactIntakeValidation  ArtifactType = "INTAKE_VALIDATION"
	ArtifactScoringResult     ArtifactType = "SCORING_RESULT"
	ArtifactWarning           ArtifactType = "WARNING"
	ArtifactVerificationProof ArtifactType = "VERIFICATION_PROOF"
	ArtifactSettlementOutcome ArtifactType = "SETTLEMENT_OUTCOME"
	ArtifactError             ArtifactType = "ERROR"
)

// Artifact is an immutable record of a decision taken about a contract.
type Artifact struct {
	ID         uint64         `gorm:"primaryKey;column:id" json:"-"`
	ArtifactID string         `gorm:"column:artifact_id;size:32;uniqueIndex:ux_artifacts_artifact_id" json:"artifact_id"`
	Type       ArtifactType   `gorm:"column:type;size:32;not null" json:"type"`
	ContractID string         `gorm:"column:contract_id;size:32;index:idx_artifacts_contract" json:"contract_id,omitempty"`
	Data       datatypes.JSON `gorm:"column:data" json:"data"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Artifact) TableName() string { return "artifacts" }

type DispatchStatus string

const (
	DispatchPending DispatchStatus = "PENDING"
	DispatchSent    DispatchStatus = "SENT"
	DispatchFailed  DispatchStatus = "FAILED"
)

// OutboxMessage is a pending notification written with the mutation that caused it.
type OutboxMessage struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	MessageID    string         `gorm:"column:message_id;size:32;uniqueIndex:ux_outbox_message_id" json:"message_id"`
	EventID      string         `gorm:"column:event_id;size:32;not null;index:idx_outbox_event" json:"event_id"`
	EventType    Type           `gorm:"column:event_type;size:40;not null" json:"event_type"`
	Recipient    string         `gorm:"column:recipient;size:32;not null" json:"recipient"`
	Payload      datatypes.JSON `gorm:"column:payload" json:"payload"`
	Status       DispatchStatus `gorm:"column:status;size:10;not null;index:idx_outbox_status" json:"status"`
	Attempts     int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError    string         `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	DispatchedAt *time.Time     `gorm:"column:dispatched_at" json:"dispatched_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OutboxMessage) TableName() string { return "notification_outbox" }

// JSON marshals v into a JSON column value. A nil v, nil map or nil pointer yields "{}".
func JSON(v any) (datatypes.JSON, error) {
	if isNil(v) {
		return datatypes.JSON("{}"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Payload is what an outbox message carries to the dispatcher.
type Payload struct {
	ContractID string         `json:"contract_id,omitempty"`
	PoolID     string         `json:"pool_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

package entities

import "time"

type AuditEventType string

const (
	AuditEventBootstrap AuditEventType = "bootstrap"
	AuditEventLogin     AuditEventType = "login"
	AuditEventSignup    AuditEventType = "signup"
	AuditEventConfirm   AuditEventType = "confirm"
	AuditEventLogout    AuditEventType = "logout"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records one authentication outcome. Events are written for
// every flow operation and for bootstrap failures; the email is the one
// the visitor submitted, not a verified identity.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"index;size:254" json:"email,omitempty"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Description string         `gorm:"size:500" json:"description"`
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

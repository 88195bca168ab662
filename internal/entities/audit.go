package entities

import "time"

type AuditEventType string

const (
	AuditEventCreate    AuditEventType = "create"
	AuditEventUpdate    AuditEventType = "update"
	AuditEventDelete    AuditEventType = "delete"
	AuditEventBootstrap AuditEventType = "bootstrap"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one row of the catalog's change history. BookTitle is kept
// alongside BookID so deleted books stay readable.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"index;size:100" json:"action"`
	Description string         `gorm:"size:500" json:"description"`
	BookID      *uint          `gorm:"index" json:"book_id,omitempty"`
	BookTitle   string         `gorm:"size:250" json:"book_title,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON object
	RequestID   string         `gorm:"size:36" json:"request_id,omitempty"`
	IPAddress   string         `gorm:"size:45" json:"ip_address,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

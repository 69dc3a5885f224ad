package models

// Abuse report states.
const (
	AbusePending  = "PENDING"
	AbuseResolved = "RESOLVED"
)

// AbuseReport records one user flagging another for moderation.
type AbuseReport struct {
	BaseModel

	ReporterID     string `gorm:"type:uuid;index;not null" json:"reporter_id"`
	ReportedUserID string `gorm:"type:uuid;index;not null" json:"reported_user_id"`
	Reason         string `gorm:"type:text;not null" json:"reason"`
	Status         string `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
}

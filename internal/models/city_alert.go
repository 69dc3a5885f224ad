package models

// CityAlert is a city-scoped broadcast event derived from a new item report.
// It is created exactly once, immediately after the report is persisted, and
// is immutable afterwards. Per-user read/delete markers live in
// UserAlertState, never on the alert itself.
type CityAlert struct {
	BaseModel

	Message string `gorm:"type:text;not null" json:"message"`
	City    string `gorm:"type:varchar(64);not null;index" json:"city"`
	Kind    string `gorm:"type:varchar(16);not null" json:"kind"`

	// SourceReportID is a weak back-reference used for deep-linking. The
	// alert stays valid even if the report is later deleted.
	SourceReportID string `gorm:"type:uuid" json:"source_report_id,omitempty"`
}

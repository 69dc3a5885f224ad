package models

// Report kinds.
const (
	KindLost  = "LOST"
	KindFound = "FOUND"
)

// Report lifecycle states. RESOLVED is terminal for matching purposes;
// INACTIVE can be reversed back to OPEN by the author.
const (
	StatusOpen     = "OPEN"
	StatusResolved = "RESOLVED"
	StatusInactive = "INACTIVE"
)

// ItemReport is a single lost or found item listing created by a user.
// Only the author (or an administrator) may edit it or change its status.
type ItemReport struct {
	BaseModel

	Kind        string `gorm:"type:varchar(16);not null;index" json:"kind"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Category    string `gorm:"type:varchar(64);index" json:"category"`
	SubTypeName string `gorm:"type:varchar(128)" json:"sub_type_name"`

	City    string `gorm:"type:varchar(64);index" json:"city"`
	Area    string `gorm:"type:varchar(128)" json:"area"`
	SubArea string `gorm:"type:varchar(128)" json:"sub_area"`

	ImageURL     string `gorm:"type:text" json:"image_url"`
	ContactPhone string `gorm:"type:varchar(32)" json:"contact_phone"`

	AuthorID   string `gorm:"type:uuid;index;not null" json:"author_id"`
	AuthorName string `gorm:"type:varchar(255)" json:"author_name"`

	Status string `gorm:"type:varchar(16);not null;default:'OPEN';index" json:"status"`
}

// IsOpen reports whether the item is still eligible for matching.
func (r *ItemReport) IsOpen() bool {
	return r.Status == StatusOpen
}

// ValidKind reports whether the supplied kind is one of LOST or FOUND.
func ValidKind(kind string) bool {
	return kind == KindLost || kind == KindFound
}

// ValidStatus reports whether the supplied status is a known lifecycle state.
func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusResolved, StatusInactive:
		return true
	}
	return false
}

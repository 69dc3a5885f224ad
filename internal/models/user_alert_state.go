package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// UserAlertState is the per-user overlay on the shared alert stream. Both id
// sets are append-only during normal operation; concurrent writers for the
// same user resolve last-write-wins, which is safe because the operations
// are idempotent set unions.
type UserAlertState struct {
	UserID          string         `gorm:"primaryKey;type:uuid" json:"user_id"`
	ReadAlertIDs    datatypes.JSON `json:"read_alert_ids"`
	DeletedAlertIDs datatypes.JSON `json:"deleted_alert_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReadSet decodes the read-id set. A corrupt or empty column yields an empty set.
func (s *UserAlertState) ReadSet() map[string]struct{} {
	return decodeIDSet(s.ReadAlertIDs)
}

// DeletedSet decodes the deleted-id set.
func (s *UserAlertState) DeletedSet() map[string]struct{} {
	return decodeIDSet(s.DeletedAlertIDs)
}

// EncodeIDSet serialises an id set into the JSON column representation with
// stable membership semantics (order is not significant).
func EncodeIDSet(ids []string) datatypes.JSON {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

func decodeIDSet(data datatypes.JSON) map[string]struct{} {
	set := make(map[string]struct{})
	if len(data) == 0 {
		return set
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return set
	}
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Category is an admin-editable lookup entry mapping a category name to its
// enumerated sub-item names. An empty item list means free-text sub types
// are accepted for that category.
type Category struct {
	BaseModel

	Name  string         `gorm:"uniqueIndex;not null" json:"name"`
	Items datatypes.JSON `json:"items"`
}

// ItemNames decodes the enumerated sub-item list.
func (c *Category) ItemNames() []string {
	if len(c.Items) == 0 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(c.Items, &items); err != nil {
		return nil
	}
	return items
}

// EncodeItems serialises a sub-item list into the JSON column representation.
func EncodeItems(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

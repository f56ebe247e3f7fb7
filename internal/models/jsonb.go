package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StringList is a JSONB-backed list of strings (role permission keys,
// default subtask ids).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into StringList", value)
		}
	}
	return json.Unmarshal(b, l)
}

// WorkItemRef is a denormalized copy of a catalog work item as attached to an
// area. Changing the catalog entry later does not touch existing areas.
type WorkItemRef struct {
	WorkItemID uuid.UUID `json:"work_item_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes,omitempty"`
}

// WorkItemList is the JSONB-backed work-item list on an area.
type WorkItemList []WorkItemRef

func (l WorkItemList) Value() (driver.Value, error) {
	if l == nil {
		l = WorkItemList{}
	}
	return json.Marshal(l)
}

func (l *WorkItemList) Scan(value interface{}) error {
	if value == nil {
		*l = WorkItemList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into WorkItemList", value)
		}
	}
	return json.Unmarshal(b, l)
}

// Metadata is a free-form JSONB payload on activity entries.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		m = Metadata{}
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into Metadata", value)
		}
	}
	return json.Unmarshal(b, m)
}

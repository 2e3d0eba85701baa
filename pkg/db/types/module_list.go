package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ModuleList is the ordered multiset of reporting modules on a transaction
// summary, stored as a JSON array so duplicates and arrival order survive.
type ModuleList []string

func (m *ModuleList) Scan(src any) error {
	if src == nil {
		*m = ModuleList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return m.parseFromBytes([]byte(v))
	case []byte:
		return m.parseFromBytes(v)
	default:
		return fmt.Errorf("ModuleList: unsupported Scan type %T", src)
	}
}

func (m ModuleList) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(m))
	if err != nil {
		return nil, fmt.Errorf("ModuleList: marshal: %w", err)
	}
	return string(raw), nil
}

func (m *ModuleList) parseFromBytes(raw []byte) error {
	if len(raw) == 0 {
		*m = ModuleList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("ModuleList: parse %q: %w", raw, err)
	}
	*m = ModuleList(out)
	return nil
}

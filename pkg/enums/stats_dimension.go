package enums

import "fmt"

// StatsDimension selects the grouping column for aggregated transaction stats.
type StatsDimension string

const (
	StatsDimensionType        StatsDimension = "type"
	StatsDimensionOrigin      StatsDimension = "origin"
	StatsDimensionStatus      StatsDimension = "status"
	StatsDimensionFirstModule StatsDimension = "first_module"
	StatsDimensionLastModule  StatsDimension = "last_module"
)

var validStatsDimensions = []StatsDimension{
	StatsDimensionType,
	StatsDimensionOrigin,
	StatsDimensionStatus,
	StatsDimensionFirstModule,
	StatsDimensionLastModule,
}

// IsValid reports whether the value matches a groupable summary column.
func (d StatsDimension) IsValid() bool {
	for _, candidate := range validStatsDimensions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseStatsDimension converts raw input into StatsDimension.
func ParseStatsDimension(value string) (StatsDimension, error) {
	for _, candidate := range validStatsDimensions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stats dimension %q", value)
}

package models

import "fmt"

// DataType is the kind of data generated for a column
type DataType string

const (
	TypeString   DataType = "string"
	TypeInteger  DataType = "integer"
	TypeFloat    DataType = "float"
	TypeBoolean  DataType = "boolean"
	TypeDate     DataType = "date"
	TypeDatetime DataType = "datetime"
	TypeEmail    DataType = "email"
	TypePhone    DataType = "phone"
	TypeAddress  DataType = "address"
	TypeName     DataType = "name"
	TypeCountry  DataType = "country"
	TypeState    DataType = "state"
	TypeCity     DataType = "city"
	TypeZip      DataType = "zip"
	TypeURL      DataType = "url"
	TypeList     DataType = "list"
)

// DataTypes lists every data kind the backend understands, in display order
var DataTypes = []DataType{
	TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeDate, TypeDatetime,
	TypeEmail, TypePhone, TypeAddress, TypeName, TypeCountry, TypeState,
	TypeCity, TypeZip, TypeURL, TypeList,
}

// ParseDataType validates a raw string against the known data kinds
func ParseDataType(raw string) (DataType, error) {
	for _, dt := range DataTypes {
		if string(dt) == raw {
			return dt, nil
		}
	}
	return "", fmt.Errorf("unknown data type: %q", raw)
}

// Numeric reports whether the type admits ge/le bounds
func (dt DataType) Numeric() bool {
	return dt == TypeInteger || dt == TypeFloat
}

// ColumnSpec describes one output column of a generation job
type ColumnSpec struct {
	Name        string         `json:"name"`
	Type        DataType       `json:"type"`
	Description string         `json:"description,omitempty"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// NumericConstraints builds the ge/le constraint map for integer and float
// columns. Returns nil when no bound is set so the field is omitted entirely.
func NumericConstraints(ge, le *float64) map[string]any {
	if ge == nil && le == nil {
		return nil
	}
	constraints := make(map[string]any)
	if ge != nil {
		constraints["ge"] = *ge
	}
	if le != nil {
		constraints["le"] = *le
	}
	return constraints
}

// StringConstraints builds the length constraint map for string columns.
// Returns nil when no bound is set so the field is omitted entirely.
func StringConstraints(minLength, maxLength *int) map[string]any {
	if minLength == nil && maxLength == nil {
		return nil
	}
	constraints := make(map[string]any)
	if minLength != nil {
		constraints["min_length"] = *minLength
	}
	if maxLength != nil {
		constraints["max_length"] = *maxLength
	}
	return constraints
}

// allowedConstraintKeys maps a data type to the constraint keys it admits
func allowedConstraintKeys(dt DataType) map[string]bool {
	switch {
	case dt.Numeric():
		return map[string]bool{"ge": true, "le": true}
	case dt == TypeString:
		return map[string]bool{"min_length": true, "max_length": true}
	default:
		return nil
	}
}

// Validate checks the column for an empty name, an unknown type and
// constraint keys that are not meaningful for the type
func (c ColumnSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("column name cannot be empty")
	}

	if _, err := ParseDataType(string(c.Type)); err != nil {
		return fmt.Errorf("column %q: %w", c.Name, err)
	}

	allowed := allowedConstraintKeys(c.Type)
	for key := range c.Constraints {
		if !allowed[key] {
			return fmt.Errorf("column %q: constraint %q is not applicable to type %q", c.Name, key, c.Type)
		}
	}

	return nil
}

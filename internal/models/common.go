// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList stores a slice as JSON text so the same column works on SQLite
// and PostgreSQL. A nil slice is stored as "[]".
type JSONList[T any] []T

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *JSONList[T]) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONList source type %T", value)
	}

	if len(data) == 0 {
		*l = JSONList[T]{}
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	*l = items
	return nil
}

func (JSONList[T]) GormDataType() string {
	return "text"
}

package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// JSONMap persists a map[string]interface{} as a JSONB column. Grounded on
// shared/eventstore/postgres_store.go's metadata-as-JSONB handling, wrapped
// as a reusable database/sql Scanner/Valuer so GORM entities can embed it
// like any other column type instead of hand-marshalling in every repo.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("JSONMap: unsupported scan source")
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

func (JSONMap) GormDataType() string {
	return "jsonb"
}

// JSONSlice persists an arbitrary slice value as a JSONB column, used for
// PipelineExecutionLog.ActionResults ([]domain.ActionExecutionResult).
type JSONSlice []byte

func (s JSONSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return []byte("[]"), nil
	}
	return []byte(s), nil
}

func (s *JSONSlice) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*s = JSONSlice(append([]byte{}, v...))
	case string:
		*s = JSONSlice(v)
	default:
		return errors.New("JSONSlice: unsupported scan source")
	}
	return nil
}

func (JSONSlice) GormDataType() string {
	return "jsonb"
}

// StringSlice persists a []string as a comma-joined text column, mirroring
// the shape of Twitch platform role lists and pipeline tags.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return strings.Join(s, ","), nil
}

func (s *StringSlice) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var raw string
	switch v := src.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.New("StringSlice: unsupported scan source")
	}
	if raw == "" {
		*s = nil
		return nil
	}
	*s = strings.Split(raw, ",")
	return nil
}

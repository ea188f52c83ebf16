package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList stores an ordered list of option strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Question is owned by its session and immutable once the round begins.
type Question struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	SessionID    string     `gorm:"size:36;index" json:"sessionId,omitempty"`
	Text         string     `gorm:"type:text;not null" json:"text"`
	Options      StringList `gorm:"type:text;not null" json:"options"`
	CorrectIndex int        `gorm:"not null" json:"correctIndex"`
	TimeLimit    int        `gorm:"not null;default:15" json:"timeLimit"`
	Multiplier   int        `gorm:"not null;default:1" json:"multiplier"`
	OrderNum     int        `gorm:"not null" json:"orderNum"`
	Current      bool       `gorm:"not null;default:false" json:"current"`
}

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProjectID identifies a project. The server sends integers; strings are
// accepted too so ids round-trip through flags and element names unchanged.
type ProjectID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ProjectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProjectID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("project id: %w", err)
	}
	*id = ProjectID(n.String())
	return nil
}

// Project is one fundable project with its current progress.
type Project struct {
	ID            ProjectID `json:"id"`
	Title         string    `json:"title,omitempty"`
	Country       string    `json:"country,omitempty"`
	Category      string    `json:"category,omitempty"`
	CurrentAmount float64   `json:"current_amount"`
	TargetAmount  float64   `json:"target_amount"`
}

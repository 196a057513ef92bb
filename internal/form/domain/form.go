package domain

import "time"

// Field is one input definition of a form. It is stored verbatim as JSONB.
type Field struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

type Form struct {
	ID        string
	Name      string
	Fields    []Field
	UserID    string
	FolderID  string
	CreatedAt time.Time
}

package domain

import "time"

type Folder struct {
	ID        string
	Name      string
	UserID    string
	CreatedAt time.Time
}

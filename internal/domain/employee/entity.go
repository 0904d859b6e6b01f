package employee

import (
	"time"
)

type Employee struct {
	ID        string
	UserID    *string
	FullName  string
	Status    string // active | inactive
	HireDate  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

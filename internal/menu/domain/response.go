package domain

import "time"

// Response is one employee's recorded choice for one day-slot.
type Response struct {
	ID         string
	EmployeeID string
	DaySlotID  string
	Selection  Selection
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Employee is the subset of the employee record menu resolution needs.
type Employee struct {
	ID        string
	Name      string
	CompanyID string
	BranchID  string
}

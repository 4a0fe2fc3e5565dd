package models

import "time"

type Lease struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	CarID     string    `json:"carId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Active    bool      `json:"active"`
}

type LeaseList struct {
	Leases []Lease `json:"leases"`
}

type Transaction struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	LeaseID   string    `json:"leaseId"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
}

// Activity is one row of the recent-activity feed on the dashboard.
type Activity struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type ActivityList struct {
	Activity []Activity `json:"activity"`
}

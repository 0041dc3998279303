package domain

import "time"

// Order is an append-only record written at checkout. Orders are never
// mutated after creation; history is read back only for display.
type Order struct {
	ID    string     `json:"id"`
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
	Date  time.Time  `json:"date"`
}

package model

import "time"

// SalesRecord is one line of the historical sales log: the quantity of a
// product sold on a given day and the price it sold at. The log is loaded
// once and treated as immutable for the lifetime of a snapshot.
type SalesRecord struct {
	Date        time.Time
	ProductName string
	Quantity    float64
	UnitPrice   float64
	Category    string
	// Age is the customer age when the log carries demographics, 0 otherwise.
	Age int
}

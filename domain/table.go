package domain

// Table is a mongo collection name
type Table string

const (
	TableEvents Table = "events"
)

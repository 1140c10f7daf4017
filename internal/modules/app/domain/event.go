package domain

import "time"

// Event is an emitted host notification as recorded in the journal.
type Event struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Args []string  `json:"args"`
	At   time.Time `json:"at"`
}

// Listener receives emitted event arguments.
type Listener func(args ...any)

// Entry is one persisted store record.
type Entry struct {
	Key   string
	Value any
}

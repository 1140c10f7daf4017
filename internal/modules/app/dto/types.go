package dto

import "time"

type Snapshot struct {
	Cwd     string
	Cache   map[string]any
	Options map[string]any
	Data    map[string]any
	Defined []string
	Plugins []string
}

type EventOutput struct {
	ID   string
	Name string
	Args []string
	At   time.Time
}

type StoreEntry struct {
	Key   string
	Value any
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKey     = errors.New("expected key to be a string or object")
	ErrInvalidTarget  = errors.New("invalid command target")
	ErrAliasCycle     = errors.New("alias would create a cycle")
	ErrPluginNotFound = errors.New("cannot find plugin")
	ErrNoHostMethod   = errors.New("host has no such method")
)

// PluginNotFoundError reports a name neither loader could resolve.
type PluginNotFoundError struct {
	Name string
}

func (e *PluginNotFoundError) Error() string {
	return fmt.Sprintf("cannot find plugin: %s", e.Name)
}

func (e *PluginNotFoundError) Is(target error) bool {
	return target == ErrPluginNotFound
}

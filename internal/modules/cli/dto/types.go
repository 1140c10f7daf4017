package dto

type CommandInfo struct {
	Name    string
	Kind    string
	Aliases []string
}

type ProcessOutput struct {
	Dispatched []string
	Skipped    []string
}

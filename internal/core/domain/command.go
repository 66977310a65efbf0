package domain

import "strings"

// Command is a subprocess invocation handed to the executor.
type Command struct {
	// Name is the binary, resolved against PATH unless absolute.
	Name string
	Args []string
}

// NewCommand builds a Command.
func NewCommand(name string, args ...string) *Command {
	return &Command{Name: name, Args: args}
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// FetchRequest asks the toolchain to retrieve one artifact into Dest.
type FetchRequest struct {
	Endpoint string
	Address  string
	Dest     string
	// Verbose relays the toolchain's standard output as well as its errors.
	Verbose bool
}

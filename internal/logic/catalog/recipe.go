package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies how a sidecar is asked to stop.
type Kind string

const (
	// KindExec runs a command inside the sidecar container.
	KindExec Kind = "exec"

	// KindPortForward sends an HTTP request to a port of the sidecar through a tunnel.
	KindPortForward Kind = "portforward"
)

// Recipe is an immutable shutdown recipe. The zero value is invalid.
// Exactly one of the Exec or PortForward payloads is set, selected by Kind.
type Recipe struct {
	kind    Kind
	command []string
	method  string
	path    string
	port    uint16
}

// NewCommand builds an exec recipe from an ordered argument list.
func NewCommand(argv ...string) Recipe {
	return Recipe{
		kind:    KindExec,
		command: slices.Clone(argv),
	}
}

// NewHTTPTrigger builds a port-forward recipe.
func NewHTTPTrigger(method, path string, port uint16) Recipe {
	return Recipe{
		kind:   KindPortForward,
		method: strings.ToUpper(method),
		path:   path,
		port:   port,
	}
}

func (r Recipe) Kind() Kind {
	return r.kind
}

// Command returns a copy of the exec argument list.
func (r Recipe) Command() []string {
	return slices.Clone(r.command)
}

func (r Recipe) Method() string {
	return r.method
}

func (r Recipe) Path() string {
	return r.path
}

func (r Recipe) Port() uint16 {
	return r.port
}

// String renders the recipe for logs and error messages.
func (r Recipe) String() string {
	switch r.kind {
	case KindExec:
		return fmt.Sprintf("exec %q", r.command)
	case KindPortForward:
		return fmt.Sprintf("%s %s at port %d", r.method, r.path, r.port)
	default:
		return "invalid recipe"
	}
}

package catalog

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/util/yaml"
)

const (
	maxPort           = 65535
	decoderBufferSize = 4096
)

// Entry is one sidecar definition as it appears in a catalog file.
type Entry struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Command string `json:"command,omitempty"`
	Method  string `json:"method,omitempty"`
	Path    string `json:"path,omitempty"`
	Port    int    `json:"port,omitempty"`
}

type file struct {
	Sidecars []Entry `json:"sidecars"`
}

// Catalog maps sidecar container names to shutdown recipes.
// It is read-only after Build and safe for concurrent use.
type Catalog struct {
	names   []string
	recipes map[string]Recipe
}

// Build validates entries and returns the catalog. Any invalid entry fails the whole build.
func Build(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		names:   make([]string, 0, len(entries)),
		recipes: make(map[string]Recipe, len(entries)),
	}

	for i := range entries {
		entry := entries[i]

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d: name is required", ErrInvalidEntry, i)
		}

		if _, exists := c.recipes[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}

		recipe, err := entry.recipe()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidEntry, name, err)
		}

		c.names = append(c.names, name)
		c.recipes[name] = recipe
	}

	return c, nil
}

// Load reads a YAML or JSON catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var doc file

	err := yaml.NewYAMLOrJSONDecoder(r, decoderBufferSize).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrReadCatalog, err)
	}

	return Build(doc.Sidecars)
}

// LoadFile loads the catalog at path. An empty path yields the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Build(Default())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalog, err)
	}
	defer f.Close()

	return Load(f)
}

// Lookup returns the recipe registered for a container name.
func (c *Catalog) Lookup(name string) (Recipe, bool) {
	recipe, ok := c.recipes[name]

	return recipe, ok
}

// Names returns the registered container names in definition order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)

	return out
}

func (c *Catalog) Len() int {
	return len(c.names)
}

func (e Entry) recipe() (Recipe, error) {
	switch e.Kind {
	case KindExec:
		argv := strings.Fields(e.Command)
		if len(argv) == 0 {
			return Recipe{}, fmt.Errorf("exec entry requires a command")
		}

		return NewCommand(argv...), nil
	case KindPortForward:
		return e.httpTrigger()
	default:
		return Recipe{}, fmt.Errorf("unknown kind %q", e.Kind)
	}
}

func (e Entry) httpTrigger() (Recipe, error) {
	method := strings.ToUpper(strings.TrimSpace(e.Method))
	if method == "" {
		return Recipe{}, fmt.Errorf("portforward entry requires a method")
	}

	if !validMethod(method) {
		return Recipe{}, fmt.Errorf("unsupported method %q", e.Method)
	}

	if e.Path == "" {
		return Recipe{}, fmt.Errorf("portforward entry requires a path")
	}

	if !strings.HasPrefix(e.Path, "/") {
		return Recipe{}, fmt.Errorf("path %q must be absolute", e.Path)
	}

	if _, err := url.ParseRequestURI(e.Path); err != nil {
		return Recipe{}, fmt.Errorf("parse path %q: %w", e.Path, err)
	}

	if e.Port == 0 {
		return Recipe{}, fmt.Errorf("portforward entry requires a port")
	}

	if e.Port < 1 || e.Port > maxPort {
		return Recipe{}, fmt.Errorf("port %d out of range 1-%d", e.Port, maxPort)
	}

	return NewHTTPTrigger(method, e.Path, uint16(e.Port)), nil
}

func validMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

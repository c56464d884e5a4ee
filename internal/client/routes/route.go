// Package routes declares the named navigation targets of the client and the
// guard that decides whether a navigation may proceed.
package routes

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

var (
	ErrInvalidRoute   = errors.New("invalid route")
	ErrDuplicateRoute = errors.New("duplicate route")
	ErrUnknownRoute   = errors.New("unknown route")
)

// Meta is the access requirement of a route. A role implies authentication;
// build values with Public, Authenticated or RoleOnly.
type Meta struct {
	RequiresAuth bool
	Role         models.Role
}

func Public() Meta        { return Meta{} }
func Authenticated() Meta { return Meta{RequiresAuth: true} }

// RoleOnly restricts a route to identities holding role.
func RoleOnly(role models.Role) Meta {
	return Meta{RequiresAuth: true, Role: role}
}

func (m Meta) validate() error {
	if m.Role == "" {
		return nil
	}
	if !m.RequiresAuth {
		return fmt.Errorf("%w: role %q without authentication", ErrInvalidRoute, m.Role)
	}
	if !m.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRoute, m.Role)
	}
	return nil
}

// Route is a named path pattern. Segments starting with ':' are parameters.
type Route struct {
	Name string
	Path string
	Meta Meta
}

func (r Route) String() string {
	return r.Name + " " + r.Path
}

// Match is a route resolved against a concrete path.
type Match struct {
	Route  Route
	Params map[string]string
}

// Table is an immutable set of routes.
type Table struct {
	routes []Route
	byName map[string]Route
}

// NewTable validates routes and builds a table. Names and paths must be unique.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{byName: make(map[string]Route, len(routes))}
	paths := make(map[string]struct{}, len(routes))

	for _, r := range routes {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: empty name for %q", ErrInvalidRoute, r.Path)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: %s: path must start with /", ErrInvalidRoute, r.Name)
		}
		if err := r.Meta.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
		if _, ok := t.byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateRoute, r.Name)
		}
		norm := normalize(r.Path)
		if _, ok := paths[norm]; ok {
			return nil, fmt.Errorf("%w: path %q", ErrDuplicateRoute, r.Path)
		}
		paths[norm] = struct{}{}
		t.byName[r.Name] = r
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func (t *Table) ByName(name string) (Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Match resolves path, ignoring any query string and trailing slash.
// The first route in declaration order wins.
func (t *Table) Match(path string) (Match, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segs := split(path)
	for _, r := range t.routes {
		if params, ok := matchSegments(split(r.Path), segs); ok {
			return Match{Route: r, Params: params}, true
		}
	}
	return Match{}, false
}

// Path renders the route called name with params substituted.
func (t *Table) Path(name string, params map[string]string) (string, error) {
	r, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	segs := split(r.Path)
	for i, s := range segs {
		if !strings.HasPrefix(s, ":") {
			continue
		}
		v, ok := params[s[1:]]
		if !ok || v == "" {
			return "", fmt.Errorf("%s: missing parameter %s", name, s[1:])
		}
		segs[i] = url.PathEscape(v)
	}
	return "/" + strings.Join(segs, "/"), nil
}

func matchSegments(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			v, err := url.PathUnescape(segs[i])
			if err != nil || v == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// normalize maps paths differing only in parameter names to one key.
func normalize(path string) string {
	segs := split(path)
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = ":"
		}
	}
	return "/" + strings.Join(segs, "/")
}

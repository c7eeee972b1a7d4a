// Package page describes the host page of data tables:
// the containers a table can be mounted into
// and the HTML document around them.
package page

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrNoContainer        = errors.New("selector matches no container")
	ErrAmbiguousContainer = errors.New("selector matches more than one container")
	ErrContainerOwned     = errors.New("container already has a table")
	ErrInvalidSelector    = errors.New("invalid container selector")
)

// Container is an element of the page that can hold one table.
type Container struct {
	ID      string   `yaml:"id"`
	Classes []string `yaml:"classes"`
	Heading string   `yaml:"heading"`
}

// Matches returns if the container is matched by
// an "#id" or ".class" selector.
func (c *Container) Matches(selector string) bool {
	switch {
	case strings.HasPrefix(selector, "#"):
		return c.ID != "" && c.ID == selector[1:]
	case strings.HasPrefix(selector, "."):
		return slices.Contains(c.Classes, selector[1:])
	}
	return false
}

// Page is the document hosting data tables.
type Page struct {
	Title      string
	Containers []Container
}

// Resolve returns the index of the one container matched by selector.
// Selectors have the form "#id" or ".class".
func (p *Page) Resolve(selector string) (int, error) {
	selector = strings.TrimSpace(selector)
	if len(selector) < 2 || (selector[0] != '#' && selector[0] != '.') || strings.ContainsAny(selector[1:], " #.>[],:") {
		return -1, fmt.Errorf("%w: %q", ErrInvalidSelector, selector)
	}
	found := -1
	for i := range p.Containers {
		if p.Containers[i].Matches(selector) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q", ErrAmbiguousContainer, selector)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNoContainer, selector)
	}
	return found, nil
}

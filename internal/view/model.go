package view

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type element struct {
	text    string
	width   string
	classes map[string]struct{}
	delay   time.Duration
}

// ViewModel is the in-memory store the dashboard renders from.
// Classes can only be added: nothing unmarks an achieved badge.
type ViewModel struct {
	elems map[string]*element
}

// New returns an empty view model.
func New() *ViewModel {
	return &ViewModel{elems: make(map[string]*element)}
}

func (vm *ViewModel) get(id string) *element {
	e, ok := vm.elems[id]
	if !ok {
		e = &element{classes: make(map[string]struct{})}
		vm.elems[id] = e
	}
	return e
}

// Apply executes commands in order.
func (vm *ViewModel) Apply(cmds ...Command) {
	for _, c := range cmds {
		e := vm.get(c.Target)
		switch c.Op {
		case SetText:
			e.text = c.Value
		case SetWidth:
			e.width = c.Value
		case AddClass:
			e.classes[c.Value] = struct{}{}
		case SetDelay:
			d, err := time.ParseDuration(c.Value)
			if err == nil {
				e.delay = d
			}
		}
	}
}

// Text returns the element's text, or "" if it was never set.
func (vm *ViewModel) Text(id string) string {
	if e, ok := vm.elems[id]; ok {
		return e.text
	}
	return ""
}

// Width returns the element's width as a CSS-style percentage string.
func (vm *ViewModel) Width(id string) string {
	if e, ok := vm.elems[id]; ok {
		return e.width
	}
	return ""
}

// HasClass reports whether the element carries class.
func (vm *ViewModel) HasClass(id, class string) bool {
	e, ok := vm.elems[id]
	if !ok {
		return false
	}
	_, has := e.classes[class]
	return has
}

// Delay returns the element's entrance delay.
func (vm *ViewModel) Delay(id string) time.Duration {
	if e, ok := vm.elems[id]; ok {
		return e.delay
	}
	return 0
}

// IDsWithPrefix lists known element ids starting with prefix, sorted.
func (vm *ViewModel) IDsWithPrefix(prefix string) []string {
	var ids []string
	for id := range vm.elems {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// RevealBars implements the progress bar reveal: every bar that currently has
// a width is reset to 0, and the returned restore commands put the original
// widths back. Callers apply reset now and restore 100ms later.
func RevealBars(vm *ViewModel) (reset, restore []Command) {
	ids := make([]string, 0, len(vm.elems))
	for id := range vm.elems {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !strings.HasSuffix(id, "-bar") {
			continue
		}
		w := vm.elems[id].width
		if w == "" {
			continue
		}
		reset = append(reset, width(id, "0%"))
		restore = append(restore, width(id, w))
	}
	return reset, restore
}

// Percent parses a width like "42%" or "37.5%" into a 0-1 fraction.
// Unparseable or non-finite widths yield 0.
func Percent(w string) float64 {
	w = strings.TrimSuffix(strings.TrimSpace(w), "%")
	f, err := strconv.ParseFloat(w, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f / 100
}

package workingset

import (
	"slices"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// ToggleSelection flips the selection of an item and reports whether it is
// now selected. Only items in the pool can be selected; toggling an absent,
// unselected id does nothing.
func (p *Pool) ToggleSelection(kind models.ItemKind, id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.selected[kind]
	if !ok {
		return false
	}
	if _, sel := set[id]; sel {
		delete(set, id)
		return false
	}
	if _, _, found := p.locate(kind, id); !found {
		return false
	}
	set[id] = struct{}{}
	return true
}

// ClearSelections empties all three selection sets.
func (p *Pool) ClearSelections() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = newSelection()
}

func (p *Pool) IsSelected(kind models.ItemKind, id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.selected[kind][id]
	return ok
}

// HasSelection reports whether any item of any kind is selected.
func (p *Pool) HasSelection() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, set := range p.selected {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

// Selected returns the selected ids of kind in ascending order.
func (p *Pool) Selected(kind models.ItemKind) []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]int64, 0, len(p.selected[kind]))
	for id := range p.selected[kind] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

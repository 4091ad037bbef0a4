package game

import "strings"

// Inventory is an ordered list of item names. Insertion order is preserved
// for display; uniqueness is enforced under trimmed, case-insensitive
// comparison, keeping the casing of the first insertion.
type Inventory struct {
	items []string
}

// NewInventory builds an inventory from stored item names, deduplicating
// with the same rules as Add.
func NewInventory(items []string) Inventory {
	var inv Inventory
	for _, it := range items {
		inv.Add(it)
	}
	return inv
}

// Add inserts an item and reports whether it was newly added. A
// case-insensitive duplicate is not re-added and keeps its original casing.
// Empty names (after trimming) are rejected.
func (inv *Inventory) Add(item string) bool {
	item = strings.TrimSpace(item)
	if item == "" {
		return false
	}
	lower := strings.ToLower(item)
	for _, existing := range inv.items {
		if strings.ToLower(existing) == lower {
			return false
		}
	}
	inv.items = append(inv.items, item)
	return true
}

// Remove deletes an item by case-insensitive name and reports whether it was
// present.
func (inv *Inventory) Remove(item string) bool {
	lower := strings.ToLower(strings.TrimSpace(item))
	for i, existing := range inv.items {
		if strings.ToLower(existing) == lower {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the item names in insertion order.
func (inv *Inventory) Items() []string {
	out := make([]string, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of items held.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

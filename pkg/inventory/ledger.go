package inventory

import "sort"

// Inventory maps an item key (an asset path or challenge identity) to
// the quantity held. Quantities are always >= 1 while an entry exists;
// a decrement to zero or below deletes the key instead of storing it.
type Inventory map[string]int

// Clone returns a deep copy of the inventory.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for item, qty := range inv {
		out[item] = qty
	}
	return out
}

// Add credits amount of item, creating the entry when absent. An
// amount of 0 leaves the inventory unchanged.
func Add(inv Inventory, item string, amount int) {
	qty := inv[item] + amount
	if qty <= 0 {
		delete(inv, item)
		return
	}
	inv[item] = qty
}

// Remove decrements item by amount, or drops the entry entirely when
// deleteAll is set. It reports whether the item existed; a miss leaves
// the inventory untouched.
func Remove(inv Inventory, item string, amount int, deleteAll bool) bool {
	qty, ok := inv[item]
	if !ok {
		return false
	}
	if deleteAll || qty-amount <= 0 {
		delete(inv, item)
		return true
	}
	inv[item] = qty - amount
	return true
}

// Total is one leaderboard row.
type Total struct {
	UserID   string `json:"user_id"`
	Quantity int    `json:"quantity"`
}

// Totals sums every user's item quantities and returns the rows sorted
// descending by total. Ties keep user-id order (stable sort over the
// sorted key set, so results are deterministic).
func Totals(users map[string]Inventory) []Total {
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	totals := make([]Total, 0, len(ids))
	for _, id := range ids {
		sum := 0
		for _, qty := range users[id] {
			sum += qty
		}
		totals = append(totals, Total{UserID: id, Quantity: sum})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Quantity > totals[j].Quantity
	})
	return totals
}

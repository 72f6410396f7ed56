package inventory

import (
	"reflect"
	"testing"
)

func TestAdd(t *testing.T) {
	inv := Inventory{}

	Add(inv, "img/1/a.png", 1)
	if inv["img/1/a.png"] != 1 {
		t.Errorf("expected quantity 1, got %d", inv["img/1/a.png"])
	}

	Add(inv, "img/1/a.png", 2)
	if inv["img/1/a.png"] != 3 {
		t.Errorf("expected quantity 3, got %d", inv["img/1/a.png"])
	}
}

func TestAdd_ZeroAmount(t *testing.T) {
	inv := Inventory{"img/1/a.png": 2}

	Add(inv, "img/1/a.png", 0)
	if inv["img/1/a.png"] != 2 {
		t.Errorf("add of 0 should leave quantity unchanged, got %d", inv["img/1/a.png"])
	}

	Add(inv, "img/1/b.png", 0)
	if _, ok := inv["img/1/b.png"]; ok {
		t.Error("add of 0 must not create an entry")
	}
}

func TestRemove(t *testing.T) {
	t.Run("decrement to zero deletes the entry", func(t *testing.T) {
		inv := Inventory{"itemA": 1}

		if !Remove(inv, "itemA", 1, false) {
			t.Fatal("expected remove of existing item to report true")
		}
		if _, ok := inv["itemA"]; ok {
			t.Error("entry should be deleted when quantity drops to 0")
		}

		// second removal is a miss
		if Remove(inv, "itemA", 1, false) {
			t.Error("expected remove of missing item to report false")
		}
	})

	t.Run("partial decrement keeps the entry", func(t *testing.T) {
		inv := Inventory{"itemA": 3}
		if !Remove(inv, "itemA", 1, false) {
			t.Fatal("expected remove to report true")
		}
		if inv["itemA"] != 2 {
			t.Errorf("expected quantity 2, got %d", inv["itemA"])
		}
	})

	t.Run("deleteAll drops the entry regardless of quantity", func(t *testing.T) {
		inv := Inventory{"itemA": 10}
		if !Remove(inv, "itemA", 1, true) {
			t.Fatal("expected remove to report true")
		}
		if _, ok := inv["itemA"]; ok {
			t.Error("deleteAll should drop the entry")
		}
	})

	t.Run("missing user item leaves inventory untouched", func(t *testing.T) {
		inv := Inventory{"itemA": 1}
		if Remove(inv, "itemB", 1, false) {
			t.Error("expected miss to report false")
		}
		if inv["itemA"] != 1 {
			t.Error("miss must not mutate the inventory")
		}
	})
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	inv := Inventory{}
	Add(inv, "itemA", 5)
	Remove(inv, "itemA", 5, false)
	if len(inv) != 0 {
		t.Errorf("expected empty inventory after symmetric add/remove, got %v", inv)
	}
}

func TestTotals(t *testing.T) {
	users := map[string]Inventory{
		"300": {"a": 1},
		"100": {"a": 2, "b": 3},
		"200": {"c": 5},
	}

	got := Totals(users)
	want := []Total{
		{UserID: "100", Quantity: 5},
		{UserID: "200", Quantity: 5},
		{UserID: "300", Quantity: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Totals() = %v; want %v", got, want)
	}
}

func TestTotals_Empty(t *testing.T) {
	if got := Totals(map[string]Inventory{}); len(got) != 0 {
		t.Errorf("expected no rows, got %v", got)
	}
}

package core

import (
	"reflect"
	"testing"
)

func TestMergeCategories(t *testing.T) {
	t.Run("combines transactions and subscriptions", func(t *testing.T) {
		got := MergeCategories(
			[]CategoryAmount{{Name: "Food", Amount: 100}, {Name: " Rent ", Amount: 900}},
			map[string]float64{"Food": 50, "": 25},
		)
		want := []CategoryAmount{
			{Name: "Rent", Amount: 900},
			{Name: "Food", Amount: 150},
			{Name: "Subscriptions", Amount: 25},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("MergeCategories() = %v, want %v", got, want)
		}
	})

	t.Run("folds the tail into Other", func(t *testing.T) {
		var tx []CategoryAmount
		for i, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
			tx = append(tx, CategoryAmount{Name: name, Amount: float64(800 - i*100)})
		}
		got := MergeCategories(tx, nil)
		if len(got) != 6 {
			t.Fatalf("MergeCategories() returned %d rows, want 6", len(got))
		}
		last := got[5]
		if last.Name != OtherCategory || last.Amount != 600 {
			t.Errorf("last row = %+v, want Other 600", last)
		}
		if got[0].Name != "A" || got[4].Name != "E" {
			t.Errorf("top rows = %v", got[:5])
		}
	})

	t.Run("a real Other category joins the tail", func(t *testing.T) {
		got := MergeCategories([]CategoryAmount{
			{Name: "Other", Amount: 1000},
			{Name: "A", Amount: 900},
			{Name: "B", Amount: 800},
			{Name: "C", Amount: 700},
			{Name: "D", Amount: 600},
			{Name: "E", Amount: 5},
			{Name: "F", Amount: 4},
		}, nil)
		want := []CategoryAmount{
			{Name: "A", Amount: 900},
			{Name: "B", Amount: 800},
			{Name: "C", Amount: 700},
			{Name: "D", Amount: 600},
			{Name: "E", Amount: 5},
			{Name: "Other", Amount: 1004},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("MergeCategories() = %v, want %v", got, want)
		}
	})

	t.Run("six categories are kept as is", func(t *testing.T) {
		var tx []CategoryAmount
		for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
			tx = append(tx, CategoryAmount{Name: name, Amount: 10})
		}
		got := MergeCategories(tx, nil)
		if len(got) != 6 || got[5].Name != "F" {
			t.Errorf("MergeCategories() = %v", got)
		}
	})

	t.Run("ties break by name", func(t *testing.T) {
		got := MergeCategories([]CategoryAmount{{Name: "b", Amount: 5}, {Name: "a", Amount: 5}}, nil)
		if got[0].Name != "a" {
			t.Errorf("first = %q, want a", got[0].Name)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := MergeCategories(nil, nil); len(got) != 0 {
			t.Errorf("MergeCategories(nil, nil) = %v, want empty", got)
		}
	})
}

func TestSubscriptionCategories(t *testing.T) {
	got := SubscriptionCategories([]Subscription{
		{Category: "Entertainment", Amount: 1200, BillingCycle: Yearly},
		{Category: "Entertainment", Amount: 50, BillingCycle: Monthly},
		{Category: "", Amount: 10, BillingCycle: Monthly},
	})
	want := map[string]float64{"Entertainment": 150, "Subscriptions": 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SubscriptionCategories() = %v, want %v", got, want)
	}
}

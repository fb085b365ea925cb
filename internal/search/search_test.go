package search

import (
	"testing"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
)

func productIDs(products []model.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func assertIDs(t *testing.T, got []model.Product, want []string) {
	t.Helper()

	ids := productIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("result ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("result ids = %v, want %v", ids, want)
		}
	}
}

func TestSearchByName_OrderAndDeduplication(t *testing.T) {
	products := []model.Product{
		{ID: "1", Name: "Burger King Combo"},
		{ID: "2", Name: "Veg Burger"},
		{ID: "3", Name: "Pizza"},
	}

	got := Search("burger", products, nil)

	assertIDs(t, got, []string{"1", "2"})
}

func TestSearchByPriceRange(t *testing.T) {
	products := []model.Product{
		{ID: "1", Name: "a", Price: 50},
		{ID: "2", Name: "b", Price: 150},
		{ID: "3", Name: "c", Price: 500},
		{ID: "4", Name: "d", Price: 600},
	}

	got := Search("100-500", products, nil)

	assertIDs(t, got, []string{"2", "3"})
}

func TestSearchByExactPriceTolerance(t *testing.T) {
	products := []model.Product{
		{ID: "1", Name: "close", Price: 99.5},
		{ID: "2", Name: "far", Price: 101},
	}

	got := Search("99", products, nil)

	assertIDs(t, got, []string{"1"})
}

func TestSearchEmptyQuery(t *testing.T) {
	products := []model.Product{
		{ID: "1", Name: "Burger"},
	}

	if got := Search("", products, nil); got != nil {
		t.Fatalf("empty query: got %v, want nil", got)
	}
	if got := Search("   ", products, nil); got != nil {
		t.Fatalf("whitespace query: got %v, want nil", got)
	}
}

func TestSearchByCategory(t *testing.T) {
	categories := []model.Category{
		{ID: "c1", Name: "Desserts"},
		{ID: "c2", Name: "Drinks"},
	}
	products := []model.Product{
		{ID: "1", Name: "Tiramisu", Category: model.CategoryRef{ID: "c1"}},
		{ID: "2", Name: "Cheesecake", Category: model.CategoryRef{ID: "c1"}},
		{ID: "3", Name: "Cola", Category: model.CategoryRef{ID: "c2"}},
	}

	got := Search("dEsSeRtS", products, categories)

	assertIDs(t, got, []string{"1", "2"})
}

func TestSearchNameMatchesRankAboveCategoryMatches(t *testing.T) {
	categories := []model.Category{
		{ID: "c1", Name: "Pizza"},
	}
	products := []model.Product{
		{ID: "1", Name: "Garlic Bread", Category: model.CategoryRef{ID: "c1"}},
		{ID: "2", Name: "Pizza Margherita", Category: model.CategoryRef{ID: "c1"}},
	}

	// Товар "2" подходит и по названию, и по категории: он должен остаться
	// на позиции совпадения по названию.
	got := Search("pizza", products, categories)

	assertIDs(t, got, []string{"2", "1"})
}

func TestSearchMalformedPriceInput(t *testing.T) {
	products := []model.Product{
		{ID: "1", Name: "Burger", Price: 100},
	}

	tests := []struct {
		name  string
		query string
	}{
		{name: "unparsable range", query: "abc-def"},
		{name: "half range", query: "100-"},
		{name: "not a number", query: "cheap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Search(tt.query, products, nil); got != nil {
				t.Fatalf("Search(%q) = %v, want nil", tt.query, got)
			}
		})
	}
}

func TestSearchFirstWordPrefix(t *testing.T) {
	products := []model.Product{
		{ID: "1", Name: "Veg Burger Deluxe"},
		{ID: "2", Name: "Chicken Wrap"},
	}

	// Первое слово запроса сопоставляется с началом названия, даже если
	// полный запрос в названии не встречается.
	got := Search("veg combo", products, nil)

	assertIDs(t, got, []string{"1"})
}

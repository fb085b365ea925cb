// Package search реализует поиск товаров по снимку каталога на стороне шлюза.
package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
)

// priceTolerance — допустимое отклонение цены при поиске по одному числу.
const priceTolerance = 1.0

// Search возвращает упорядоченный список товаров, подходящих под запрос.
//
// Запрос сопоставляется тремя независимыми правилами: по названию товара,
// по точному названию категории и по цене (диапазон "min-max" либо одно число
// с допуском в одну единицу). Результаты правил склеиваются в этом порядке и
// дедуплицируются по идентификатору товара с сохранением первого вхождения.
// Функция чистая: не выполняет I/O и детерминирована относительно аргументов.
func Search(query string, products []model.Product, categories []model.Category) []model.Product {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}

	firstWord := normalized
	if i := strings.IndexAny(normalized, " \t"); i >= 0 {
		firstWord = normalized[:i]
	}

	var matched []model.Product
	matched = append(matched, matchByName(normalized, firstWord, products)...)
	matched = append(matched, matchByCategory(normalized, products, categories)...)
	matched = append(matched, matchByPrice(normalized, products)...)

	return dedupeByID(matched)
}

// matchByName отбирает товары, название которых начинается с первого слова
// запроса либо содержит запрос целиком.
func matchByName(query, firstWord string, products []model.Product) []model.Product {
	var res []model.Product
	for _, p := range products {
		name := strings.ToLower(p.Name)
		if strings.HasPrefix(name, firstWord) || strings.Contains(name, query) {
			res = append(res, p)
		}
	}
	return res
}

// matchByCategory отбирает все товары категории, название которой совпадает
// с запросом без учёта регистра.
func matchByCategory(query string, products []model.Product, categories []model.Category) []model.Product {
	var categoryID string
	for _, c := range categories {
		if strings.ToLower(c.Name) == query {
			categoryID = c.ID
			break
		}
	}
	if categoryID == "" {
		return nil
	}

	var res []model.Product
	for _, p := range products {
		if p.Category.ID == categoryID {
			res = append(res, p)
		}
	}
	return res
}

// matchByPrice отбирает товары по цене. Некорректный числовой ввод не считается
// ошибкой и просто не даёт совпадений.
func matchByPrice(query string, products []model.Product) []model.Product {
	if strings.Contains(query, "-") {
		minPrice, maxPrice, ok := parsePriceRange(query)
		if !ok {
			return nil
		}
		var res []model.Product
		for _, p := range products {
			if p.Price >= minPrice && p.Price <= maxPrice {
				res = append(res, p)
			}
		}
		return res
	}

	exact, err := strconv.ParseFloat(query, 64)
	if err != nil {
		return nil
	}

	var res []model.Product
	for _, p := range products {
		if math.Abs(p.Price-exact) < priceTolerance {
			res = append(res, p)
		}
	}
	return res
}

func parsePriceRange(query string) (minPrice, maxPrice float64, ok bool) {
	parts := strings.SplitN(query, "-", 2)
	lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLo != nil || errHi != nil {
		return 0, 0, false
	}

	return lo, hi, true
}

// dedupeByID убирает дубликаты по идентификатору, сохраняя порядок первого вхождения.
func dedupeByID(products []model.Product) []model.Product {
	if len(products) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(products))
	res := make([]model.Product, 0, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		res = append(res, p)
	}
	return res
}

// Package validation содержит функции валидации входных данных.
package validation

import "unicode"

// IsValidSessionRef проверяет корректность идентификатора платёжной сессии.
// Идентификатор непрозрачен для шлюза, поэтому проверяется только то, что он
// непустой и состоит из печатаемых символов без пробелов.
func IsValidSessionRef(ref string) bool {
	if ref == "" {
		return false
	}

	for _, ch := range ref {
		if unicode.IsSpace(ch) || !unicode.IsPrint(ch) {
			return false
		}
	}

	return true
}

// IsValidObjectID проверяет идентификатор сущности бэкенда: 24 шестнадцатеричных символа.
func IsValidObjectID(id string) bool {
	if len(id) != 24 {
		return false
	}

	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}

	return true
}

// IsValidQuantity проверяет количество товара в корзине: ноль означает удаление позиции.
func IsValidQuantity(quantity int) bool {
	return quantity >= 0
}

// Package model содержит доменные сущности шлюза витрины CraveCrafters.
package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// CategoryRef — ссылка на категорию товара. Бэкенд отдаёт либо голый
// идентификатор, либо развёрнутый объект категории; обратно сериализуется
// всегда голый идентификатор — именно его бэкенд принимает при создании
// и обновлении товара.
type CategoryRef struct {
	ID   string
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = CategoryRef{}
		return nil
	}

	if data[0] == '"' {
		c.Name = ""
		return json.Unmarshal(data, &c.ID)
	}

	var obj struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.ID = obj.ID
	c.Name = obj.Name
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ID)
}

// Product представляет снимок товара, полученный от бэкенда.
type Product struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Stock       int         `json:"stock"`
	Category    CategoryRef `json:"category"`
	Description string      `json:"description,omitempty"`
	Images      []string    `json:"images,omitempty"`
}

// Category представляет категорию товаров.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// CartItem описывает позицию корзины пользователя.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Cart описывает корзину пользователя, хранящуюся на бэкенде.
type Cart struct {
	Items []CartItem `json:"items"`
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid сообщает, является ли значение одним из известных статусов заказа.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

// Order описывает заказ пользователя из истории заказов.
type Order struct {
	ID        string      `json:"_id"`
	Status    OrderStatus `json:"status"`
	Items     []CartItem  `json:"items"`
	Total     float64     `json:"total,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Address содержит почтовый адрес из профиля пользователя.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// Profile описывает профиль пользователя, необходимый для оформления заказа.
type Profile struct {
	Username string  `json:"username"`
	Email    string  `json:"email,omitempty"`
	Address  Address `json:"address"`
}

// CheckoutSession содержит идентификатор платёжной сессии, созданной бэкендом.
type CheckoutSession struct {
	ID string `json:"id"`
}

// ConfirmationOutcome описывает исход попытки подтверждения платежа.
type ConfirmationOutcome string

const (
	OutcomePending            ConfirmationOutcome = "PENDING"
	OutcomeSuccess            ConfirmationOutcome = "SUCCESS"
	OutcomeRecoverableFailure ConfirmationOutcome = "RECOVERABLE_FAILURE"
	OutcomeFatalFailure       ConfirmationOutcome = "FATAL_FAILURE"
)

// ConfirmationAttempt описывает результат одной попытки подтверждения платежа.
// Вызывающей стороне отдаётся только терминальная попытка.
type ConfirmationAttempt struct {
	Attempt     int                 `json:"attempt"`
	Outcome     ConfirmationOutcome `json:"outcome"`
	Detail      string              `json:"detail,omitempty"`
	RedirectURL string              `json:"redirectUrl,omitempty"`
}

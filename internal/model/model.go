// Package model содержит доменные сущности магазина.
package model

import "time"

// User представляет зарегистрированного пользователя магазина.
type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Email        string
	CreatedAt    time.Time
}

// Product описывает товар каталога. Поля price и category сохраняются
// так, как их прислал клиент, без проверки типа или диапазона.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Category    string  `json:"category"`
	Image       *string `json:"image"`
}

// Feedback описывает отзыв пользователя о товаре.
type Feedback struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	UserID    int64   `json:"user_id"`
	Rating    string  `json:"rating"`
	Comment   *string `json:"comment"`
}

// Order описывает заголовок заказа пользователя.
type Order struct {
	ID          int64
	UserID      int64
	TotalAmount string
	Date        time.Time
}

// OrderItem описывает одну позицию заказа. Позиции существуют только
// вместе с заказом и создаются в одном запросе с его заголовком.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// CartItem описывает позицию корзины пользователя.
type CartItem struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

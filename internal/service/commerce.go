package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avolkov/marketplace-system/internal/model"
)

// ErrNoItems возвращается при попытке оформить заказ без позиций.
var ErrNoItems = errors.New("order must contain at least one item")

// CommerceRepository описывает контракт доступа к данным заказов,
// отзывов и корзины.
type CommerceRepository interface {
	CreateFeedback(ctx context.Context, f model.Feedback) (int64, error)
	GetFeedbackByProduct(ctx context.Context, productID int64) ([]model.Feedback, error)
	AddCartItem(ctx context.Context, userID, productID, quantity int64) (int64, error)
	GetCartByUser(ctx context.Context, userID int64) ([]model.CartItem, error)
	CreateOrder(ctx context.Context, userID int64, totalAmount string, date time.Time, items []model.OrderItem) (int64, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)
}

// Commerce реализует оформление заказов, отзывы и корзину.
type Commerce struct {
	repo CommerceRepository
}

// NewCommerce создаёт новый сервис покупок.
func NewCommerce(repo CommerceRepository) *Commerce {
	return &Commerce{repo: repo}
}

// AddFeedback сохраняет отзыв о товаре.
func (s *Commerce) AddFeedback(ctx context.Context, productID, userID int64, rating string, comment *string) (int64, error) {
	return s.repo.CreateFeedback(ctx, model.Feedback{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	})
}

// FeedbackByProduct возвращает отзывы о товаре.
func (s *Commerce) FeedbackByProduct(ctx context.Context, productID int64) ([]model.Feedback, error) {
	return s.repo.GetFeedbackByProduct(ctx, productID)
}

// AddCartItem добавляет позицию в корзину пользователя.
// Количество меньше единицы трактуется как одна штука.
func (s *Commerce) AddCartItem(ctx context.Context, userID, productID, quantity int64) (int64, error) {
	if quantity < 1 {
		quantity = 1
	}
	return s.repo.AddCartItem(ctx, userID, productID, quantity)
}

// CartByUser возвращает позиции корзины пользователя.
func (s *Commerce) CartByUser(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return s.repo.GetCartByUser(ctx, userID)
}

// PlaceOrder разбирает сериализованный список позиций и создаёт заказ
// с текущей датой. Заголовок и позиции записываются атомарно: либо
// фиксируется весь заказ, либо ничего.
func (s *Commerce) PlaceOrder(ctx context.Context, userID int64, totalAmount, itemsJSON string) (int64, error) {
	var items []model.OrderItem
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return 0, fmt.Errorf("parse order items: %w", err)
	}

	if len(items) == 0 {
		return 0, ErrNoItems
	}

	return s.repo.CreateOrder(ctx, userID, totalAmount, time.Now(), items)
}

// OrdersByUser возвращает заказы пользователя.
func (s *Commerce) OrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.repo.GetOrdersByUser(ctx, userID)
}

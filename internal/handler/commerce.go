package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/avolkov/marketplace-system/internal/middleware"
	"github.com/avolkov/marketplace-system/internal/model"
	"github.com/avolkov/marketplace-system/internal/service"
)

type lastIDResponse struct {
	LastID int64 `json:"lastId"`
}

// AddFeedback сохраняет отзыв о товаре. Комментарий необязателен.
func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	productID := r.FormValue("productId")
	userID := r.FormValue("userId")
	rating := r.FormValue("rating")

	if productID == "" || userID == "" || rating == "" {
		writeText(w, http.StatusBadRequest, "Missing required parameters: product id, user id, or rating")
		return
	}

	pid, err := strconv.ParseInt(productID, 10, 64)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error adding feedback")
		return
	}
	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error adding feedback")
		return
	}

	var comment *string
	if c := r.FormValue("comment"); c != "" {
		comment = &c
	}

	id, err := h.commerce.AddFeedback(r.Context(), pid, uid, rating, comment)
	if err != nil {
		h.logger.Error("add feedback error", zap.Error(err), zap.Int64("productID", pid))
		writeText(w, http.StatusInternalServerError, "Error adding feedback")
		return
	}

	h.writeJSON(w, lastIDResponse{LastID: id})
}

// GetFeedback возвращает отзывы о товаре. Доступно без аутентификации.
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error retrieving feedback")
		return
	}

	feedback, err := h.commerce.FeedbackByProduct(r.Context(), productID)
	if err != nil {
		h.logger.Error("get feedback error", zap.Error(err), zap.Int64("productID", productID))
		writeText(w, http.StatusInternalServerError, "Error retrieving feedback")
		return
	}

	if feedback == nil {
		feedback = []model.Feedback{}
	}
	h.writeJSON(w, feedback)
}

// AddToCart добавляет позицию в корзину текущего пользователя.
// Количество необязательно и по умолчанию равно одной штуке.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	productID := r.FormValue("productId")
	userID := r.FormValue("userId")

	if productID == "" || userID == "" {
		writeText(w, http.StatusBadRequest, "Missing required parameters: product id or user id")
		return
	}

	pid, err := strconv.ParseInt(productID, 10, 64)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error adding to cart")
		return
	}
	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error adding to cart")
		return
	}

	var quantity int64
	if q := r.FormValue("quantity"); q != "" {
		quantity, err = strconv.ParseInt(q, 10, 64)
		if err != nil {
			writeText(w, http.StatusInternalServerError, "Error adding to cart")
			return
		}
	}

	id, err := h.commerce.AddCartItem(r.Context(), uid, pid, quantity)
	if err != nil {
		h.logger.Error("add to cart error", zap.Error(err), zap.Int64("productID", pid))
		writeText(w, http.StatusInternalServerError, "Error adding to cart")
		return
	}

	h.writeJSON(w, lastIDResponse{LastID: id})
}

// GetCart возвращает позиции корзины пользователя.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	userID, err := pathID(r, "userId")
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error retrieving cart")
		return
	}

	items, err := h.commerce.CartByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("get cart error", zap.Error(err), zap.Int64("userID", userID))
		writeText(w, http.StatusInternalServerError, "Error retrieving cart")
		return
	}

	if items == nil {
		items = []model.CartItem{}
	}
	h.writeJSON(w, items)
}

type placeOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

// PlaceOrder оформляет заказ текущего пользователя: заголовок и все
// позиции записываются в одной транзакции.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	userID := r.FormValue("userId")
	totalAmount := r.FormValue("totalAmount")
	items := r.FormValue("items")

	if userID == "" || totalAmount == "" || items == "" {
		writeText(w, http.StatusBadRequest, "Missing required parameters: userId, totalAmount, or items")
		return
	}

	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error occurred while placing order")
		return
	}

	orderID, err := h.commerce.PlaceOrder(r.Context(), uid, totalAmount, items)
	if err != nil {
		if errors.Is(err, service.ErrNoItems) {
			writeText(w, http.StatusBadRequest, "Order must contain at least one item")
			return
		}
		h.logger.Error("place order error", zap.Error(err), zap.Int64("userID", uid))
		writeText(w, http.StatusInternalServerError, "Error occurred while placing order")
		return
	}

	h.writeJSON(w, placeOrderResponse{OrderID: orderID})
}

type orderResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	TotalAmount string `json:"total_amount"`
	Date        string `json:"date"`
}

// GetOrders возвращает заказы пользователя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	userID, err := pathID(r, "userId")
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Error retrieving orders")
		return
	}

	orders, err := h.commerce.OrdersByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("get orders error", zap.Error(err), zap.Int64("userID", userID))
		writeText(w, http.StatusInternalServerError, "Error retrieving orders")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, orderResponse{
			ID:          o.ID,
			UserID:      o.UserID,
			TotalAmount: o.TotalAmount,
			Date:        o.Date.Format(time.DateOnly),
		})
	}

	h.writeJSON(w, resp)
}

// Package handler содержит HTTP-обработчики API шлюза витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/backend"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/middleware"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Register(ctx context.Context, creds backend.Credentials) (string, error)
	Login(ctx context.Context, creds backend.Credentials) (string, error)
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, productID string) (*model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	SearchProducts(ctx context.Context, query string) ([]model.Product, error)
	CreateCheckout(ctx context.Context, token string) (*model.CheckoutSession, error)
	ConfirmCheckout(ctx context.Context, token, sessionID string) (model.ConfirmationAttempt, error)
	Cart(ctx context.Context, token string) (*model.Cart, error)
	AddToCart(ctx context.Context, token, productID string, quantity int) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, token, productID string, quantity int) (*model.Cart, error)
	ClearCart(ctx context.Context, token string) error
	Orders(ctx context.Context, token string) ([]model.Order, error)
	CancelOrder(ctx context.Context, token, orderID string) error
	AdminOrders(ctx context.Context, token string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error)
	Profile(ctx context.Context, token string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, token string, profile model.Profile) (*model.Profile, error)
	CreateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	CreateCategory(ctx context.Context, token string, category model.Category) (*model.Category, error)
}

// Handler реализует HTTP-обработчики API шлюза витрины.
type Handler struct {
	service      Service
	logger       *zap.Logger
	rateLimitRPS float64
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, rateLimitRPS float64) *Handler {
	return &Handler{
		service:      s,
		logger:       logger,
		rateLimitRPS: rateLimitRPS,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// writeBackendError транслирует ошибку бэкенда в HTTP-ответ шлюза: статусы
// бэкенда пробрасываются как есть, ошибки формы данных становятся 502.
func (h *Handler) writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
		return
	}

	if errors.Is(err, backend.ErrUnexpectedShape) {
		h.logger.Error("malformed backend response", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	h.logger.Error("backend call failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return "", false
	}
	return token, true
}

type credentialsRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	token, err := h.service.Register(r.Context(), backend.Credentials{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Login выполняет аутентификацию пользователя через бэкенд.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	token, err := h.service.Login(r.Context(), backend.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GetProducts возвращает товары из снимка каталога.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct возвращает один товар для карточки товара.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chiURLParam(r, "id")

	product, err := h.service.Product(r.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidObjectID) {
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
			return
		}
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// GetCategories возвращает категории из снимка каталога.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

type searchResponse struct {
	Results []model.Product `json:"results"`
	Message string          `json:"message,omitempty"`
}

// Search выполняет поиск по каталогу. Пустой результат — не ошибка:
// возвращается пояснение для пользователя.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.service.SearchProducts(r.Context(), query)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	resp := searchResponse{Results: results}
	if len(results) == 0 {
		resp.Results = []model.Product{}
		resp.Message = "No product found"
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateCheckout создаёт платёжную сессию для корзины текущего пользователя.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	session, err := h.service.CreateCheckout(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrProfileIncomplete) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// ConfirmCheckout запускает подтверждение платёжной сессии и возвращает
// терминальный результат цепочки попыток.
func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	sessionID := r.URL.Query().Get("session_id")

	attempt, err := h.service.ConfirmCheckout(r.Context(), token, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSessionRef) {
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("confirm checkout error", zap.Error(err), zap.String("session", sessionID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	switch attempt.Outcome {
	case model.OutcomeSuccess:
		writeJSON(w, http.StatusOK, attempt)
	case model.OutcomeFatalFailure:
		writeJSON(w, http.StatusBadRequest, attempt)
	default:
		writeJSON(w, http.StatusBadGateway, attempt)
	}
}

// GetCart возвращает корзину текущего пользователя.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	cart, err := h.service.Cart(r.Context(), token)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

type cartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddToCart добавляет товар в корзину текущего пользователя.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.AddToCart(r.Context(), token, req.ProductID, req.Quantity)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// UpdateCart изменяет количество товара в корзине текущего пользователя.
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	cart, err := h.service.UpdateCartItem(r.Context(), token, req.ProductID, req.Quantity)
	if err != nil {
		h.writeCartError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidObjectID):
		http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrInvalidQuantity):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	default:
		h.writeBackendError(w, err)
	}
}

// ClearCart очищает корзину текущего пользователя.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearCart(r.Context(), token); err != nil {
		h.writeBackendError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetOrders возвращает историю заказов текущего пользователя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	orders, err := h.service.Orders(r.Context(), token)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// CancelOrder отменяет заказ текущего пользователя.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	orderID := chiURLParam(r, "id")

	if err := h.service.CancelOrder(r.Context(), token, orderID); err != nil {
		if errors.Is(err, service.ErrInvalidObjectID) {
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
			return
		}
		h.writeBackendError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// AdminOrders возвращает заказы всех пользователей для администратора.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	orders, err := h.service.AdminOrders(r.Context(), token)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateOrderStatus меняет статус заказа от имени администратора.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	orderID := chiURLParam(r, "id")

	order, err := h.service.UpdateOrderStatus(r.Context(), token, orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidObjectID):
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
		case errors.Is(err, service.ErrInvalidOrderStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.writeBackendError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetProfile возвращает профиль текущего пользователя.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	profile, err := h.service.Profile(r.Context(), token)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile обновляет профиль текущего пользователя.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var profile model.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), token, profile)
	if err != nil {
		if errors.Is(err, service.ErrProfileIncomplete) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// CreateProduct создаёт товар от имени администратора.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateProduct(r.Context(), token, product)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct обновляет товар от имени администратора.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	product.ID = chiURLParam(r, "id")

	updated, err := h.service.UpdateProduct(r.Context(), token, product)
	if err != nil {
		if errors.Is(err, service.ErrInvalidObjectID) {
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
			return
		}
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct удаляет товар от имени администратора.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	productID := chiURLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), token, productID); err != nil {
		if errors.Is(err, service.ErrInvalidObjectID) {
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
			return
		}
		h.writeBackendError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// CreateCategory создаёт категорию от имени администратора.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	var category model.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateCategory(r.Context(), token, category)
	if err != nil {
		h.writeBackendError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

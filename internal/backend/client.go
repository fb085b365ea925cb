// Package backend предоставляет HTTP-клиент для удалённого бэкенда витрины.
//
// Клиент повторяет запросы только при транспортных сбоях (обрыв соединения,
// отсутствие ответа) с линейной задержкой; HTTP-ошибки бэкенда никогда не
// ретраятся и возвращаются вызывающей стороне как APIError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
)

// ErrUnexpectedShape возвращается, если ответ бэкенда не соответствует ожидаемой форме.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// APIError описывает ошибку, возвращённую бэкендом вместе с HTTP-статусом.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

// Client инкапсулирует HTTP-взаимодействие с бэкендом витрины.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// Options задаёт параметры клиента бэкенда.
type Options struct {
	Timeout time.Duration
	Retries int
	Logger  *zap.Logger
}

// NewClient создаёт клиент бэкенда с указанным адресом и параметрами ретраев.
func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: opts.Timeout}
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 10 * time.Second
	rc.CheckRetry = retryTransportErrors
	rc.Backoff = linearBackoff
	if opts.Logger != nil {
		rc.Logger = leveledLogger{opts.Logger.Sugar()}
	} else {
		rc.Logger = nil
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc,
	}
}

// retryTransportErrors ретраит только сетевые сбои: ответ со статусом,
// даже ошибочным, считается окончательным.
func retryTransportErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return false, nil
}

// linearBackoff увеличивает задержку пропорционально номеру попытки.
func linearBackoff(minWait, maxWait time.Duration, attemptNum int, _ *http.Response) time.Duration {
	wait := minWait * time.Duration(attemptNum+1)
	if wait > maxWait {
		wait = maxWait
	}
	return wait
}

// leveledLogger адаптирует zap к интерфейсу логгера retryablehttp.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}

func (c *Client) url(path string) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", fmt.Errorf("backend client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return base + path, nil
}

// do выполняет запрос к бэкенду и возвращает тело успешного ответа.
// Пустой token означает неаутентифицированный вызов.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) ([]byte, error) {
	u, err := c.url(path)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	return data, nil
}

func decodeAPIError(statusCode int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		payload.Message = http.StatusText(statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: payload.Message}
}

func decodeInto(data []byte, out interface{}) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s", ErrUnexpectedShape, err)
	}
	return nil
}

// normalizeList принимает либо голый JSON-массив, либо объект с массивом под
// указанным ключом. Любая другая форма считается фатальной ошибкой данных.
func normalizeList(data []byte, key string) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)

	if bytes.HasPrefix(trimmed, []byte("[")) {
		return trimmed, nil
	}

	if bytes.HasPrefix(trimmed, []byte("{")) {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedShape, err)
		}
		inner, ok := wrapped[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q key", ErrUnexpectedShape, key)
		}
		innerTrimmed := bytes.TrimSpace(inner)
		if !bytes.HasPrefix(innerTrimmed, []byte("[")) {
			return nil, fmt.Errorf("%w: %q is not a list", ErrUnexpectedShape, key)
		}
		return innerTrimmed, nil
	}

	return nil, fmt.Errorf("%w: neither list nor object", ErrUnexpectedShape)
}

// Credentials содержит данные для регистрации или входа пользователя.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register регистрирует пользователя на бэкенде и возвращает токен.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/register", "", creds)
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := decodeInto(data, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login аутентифицирует пользователя на бэкенде и возвращает токен.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/login", "", creds)
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := decodeInto(data, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Products возвращает список товаров. Бэкенд отдаёт либо голый массив, либо
// объект с ключом "products" — обе формы нормализуются до массива.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/products", "", nil)
	if err != nil {
		return nil, err
	}

	list, err := normalizeList(data, "products")
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := decodeInto(list, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product возвращает один товар по идентификатору.
func (c *Client) Product(ctx context.Context, productID string) (*model.Product, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/products/"+productID, "", nil)
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := decodeInto(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories возвращает список категорий товаров.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/categories", "", nil)
	if err != nil {
		return nil, err
	}

	list, err := normalizeList(data, "categories")
	if err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := decodeInto(list, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ConfirmResult описывает успешный ответ бэкенда на подтверждение платежа.
type ConfirmResult struct {
	Message     string `json:"message,omitempty"`
	RedirectURL string `json:"redirectUrl"`
}

// ConfirmPayment запрашивает у бэкенда подтверждение платёжной сессии.
func (c *Client) ConfirmPayment(ctx context.Context, token, sessionID string) (*ConfirmResult, error) {
	path := "/api/payment/success?session_id=" + neturl.QueryEscape(sessionID)
	data, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	var result ConfirmResult
	if err := decodeInto(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateCheckoutSession создаёт платёжную сессию для текущей корзины пользователя.
func (c *Client) CreateCheckoutSession(ctx context.Context, token string) (*model.CheckoutSession, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/payment/create-checkout-session", token, struct{}{})
	if err != nil {
		return nil, err
	}

	var session model.CheckoutSession
	if err := decodeInto(data, &session); err != nil {
		return nil, err
	}
	if session.ID == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrUnexpectedShape)
	}
	return &session, nil
}

// Profile возвращает профиль текущего пользователя.
func (c *Client) Profile(ctx context.Context, token string) (*model.Profile, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/auth/profile", token, nil)
	if err != nil {
		return nil, err
	}

	var profile model.Profile
	if err := decodeInto(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile обновляет имя пользователя и адрес в профиле.
func (c *Client) UpdateProfile(ctx context.Context, token string, profile model.Profile) (*model.Profile, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/auth/update-profile", token, profile)
	if err != nil {
		return nil, err
	}

	var updated model.Profile
	if err := decodeInto(data, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Cart возвращает корзину текущего пользователя.
func (c *Client) Cart(ctx context.Context, token string) (*model.Cart, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/cart", token, nil)
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	if err := decodeInto(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type cartUpdateRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddToCart добавляет товар в корзину пользователя.
func (c *Client) AddToCart(ctx context.Context, token, productID string, quantity int) (*model.Cart, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/cart", token, cartUpdateRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	if err := decodeInto(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem изменяет количество товара в корзине. Нулевое количество удаляет позицию.
func (c *Client) UpdateCartItem(ctx context.Context, token, productID string, quantity int) (*model.Cart, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/cart/update", token, cartUpdateRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	if err := decodeInto(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart очищает корзину пользователя.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/cart", token, nil)
	return err
}

// Orders возвращает историю заказов пользователя.
func (c *Client) Orders(ctx context.Context, token string) ([]model.Order, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/orders", token, nil)
	if err != nil {
		return nil, err
	}

	list, err := normalizeList(data, "orders")
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	if err := decodeInto(list, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder отменяет заказ пользователя.
func (c *Client) CancelOrder(ctx context.Context, token, orderID string) error {
	body := struct {
		Status model.OrderStatus `json:"status"`
	}{Status: model.OrderStatusCancelled}

	_, err := c.do(ctx, http.MethodPut, "/api/orders/cancel/"+orderID, token, body)
	return err
}

// AdminOrders возвращает заказы всех пользователей для администратора.
func (c *Client) AdminOrders(ctx context.Context, token string) ([]model.Order, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/admin/orders", token, nil)
	if err != nil {
		return nil, err
	}

	list, err := normalizeList(data, "orders")
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	if err := decodeInto(list, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus меняет статус заказа от имени администратора.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error) {
	body := struct {
		Status model.OrderStatus `json:"status"`
	}{Status: status}

	data, err := c.do(ctx, http.MethodPut, "/api/admin/orders/"+orderID, token, body)
	if err != nil {
		return nil, err
	}

	var order model.Order
	if err := decodeInto(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateProduct создаёт товар от имени администратора.
func (c *Client) CreateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/products", token, product)
	if err != nil {
		return nil, err
	}

	var created model.Product
	if err := decodeInto(data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct обновляет товар от имени администратора.
func (c *Client) UpdateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/products/"+product.ID, token, product)
	if err != nil {
		return nil, err
	}

	var updated model.Product
	if err := decodeInto(data, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct удаляет товар от имени администратора.
func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/products/"+productID, token, nil)
	return err
}

// CreateCategory создаёт категорию от имени администратора.
func (c *Client) CreateCategory(ctx context.Context, token string, category model.Category) (*model.Category, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/categories", token, category)
	if err != nil {
		return nil, err
	}

	var created model.Category
	if err := decodeInto(data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

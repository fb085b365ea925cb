// Package service реализует бизнес-логику шлюза витрины.
package service

import (
	"context"
	"errors"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/backend"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/catalog"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/search"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/validation"
)

// ErrProfileIncomplete возвращается, если в профиле нет имени пользователя или адреса.
var (
	ErrProfileIncomplete = errors.New("profile username and address are required")
	// ErrInvalidSessionRef возвращается при некорректном идентификаторе платёжной сессии.
	ErrInvalidSessionRef = errors.New("invalid session reference")
	// ErrInvalidObjectID возвращается при некорректном идентификаторе сущности.
	ErrInvalidObjectID = errors.New("invalid object id")
	// ErrInvalidQuantity возвращается при отрицательном количестве товара.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidOrderStatus возвращается при неизвестном статусе заказа.
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// Backend описывает контракт клиента бэкенда, используемый сервисом.
type Backend interface {
	Register(ctx context.Context, creds backend.Credentials) (string, error)
	Login(ctx context.Context, creds backend.Credentials) (string, error)
	Product(ctx context.Context, productID string) (*model.Product, error)
	CreateCheckoutSession(ctx context.Context, token string) (*model.CheckoutSession, error)
	Profile(ctx context.Context, token string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, token string, profile model.Profile) (*model.Profile, error)
	Cart(ctx context.Context, token string) (*model.Cart, error)
	AddToCart(ctx context.Context, token, productID string, quantity int) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, token, productID string, quantity int) (*model.Cart, error)
	ClearCart(ctx context.Context, token string) error
	Orders(ctx context.Context, token string) ([]model.Order, error)
	CancelOrder(ctx context.Context, token, orderID string) error
	AdminOrders(ctx context.Context, token string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error)
	CreateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	CreateCategory(ctx context.Context, token string, category model.Category) (*model.Category, error)
}

// Catalog описывает контракт снимка каталога.
type Catalog interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Confirmer описывает контракт подтверждения платёжной сессии.
type Confirmer interface {
	Confirm(ctx context.Context, token, sessionID string) (model.ConfirmationAttempt, error)
}

// Service содержит бизнес-логику шлюза витрины.
type Service struct {
	backend Backend
	catalog Catalog
	poller  Confirmer
}

// NewService создаёт сервис с указанными клиентом бэкенда, каталогом и поллером.
func NewService(b Backend, c Catalog, p Confirmer) *Service {
	return &Service{
		backend: b,
		catalog: c,
		poller:  p,
	}
}

// Register регистрирует пользователя и возвращает токен бэкенда.
func (s *Service) Register(ctx context.Context, creds backend.Credentials) (string, error) {
	return s.backend.Register(ctx, creds)
}

// Login аутентифицирует пользователя и возвращает токен бэкенда.
func (s *Service) Login(ctx context.Context, creds backend.Credentials) (string, error) {
	return s.backend.Login(ctx, creds)
}

// Products возвращает товары из актуального снимка каталога.
func (s *Service) Products(ctx context.Context) ([]model.Product, error) {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Products, nil
}

// Categories возвращает категории из актуального снимка каталога.
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Categories, nil
}

// Product возвращает один товар по идентификатору. Карточка товара должна
// показывать актуальный остаток, поэтому запрос идёт на бэкенд мимо снимка.
func (s *Service) Product(ctx context.Context, productID string) (*model.Product, error) {
	if !validation.IsValidObjectID(productID) {
		return nil, ErrInvalidObjectID
	}
	return s.backend.Product(ctx, productID)
}

// SearchProducts выполняет поиск по снимку каталога. Пустой запрос даёт пустой
// результат без ошибки.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return search.Search(query, snap.Products, snap.Categories), nil
}

// CreateCheckout создаёт платёжную сессию. Перед созданием проверяется, что в
// профиле заполнены имя пользователя и улица — без них бэкенд отклонит
// подтверждение платежа.
func (s *Service) CreateCheckout(ctx context.Context, token string) (*model.CheckoutSession, error) {
	profile, err := s.backend.Profile(ctx, token)
	if err != nil {
		return nil, err
	}

	if profile.Username == "" || profile.Address.Street == "" {
		return nil, ErrProfileIncomplete
	}

	return s.backend.CreateCheckoutSession(ctx, token)
}

// ConfirmCheckout подтверждает платёжную сессию и возвращает терминальную попытку.
func (s *Service) ConfirmCheckout(ctx context.Context, token, sessionID string) (model.ConfirmationAttempt, error) {
	if !validation.IsValidSessionRef(sessionID) {
		return model.ConfirmationAttempt{}, ErrInvalidSessionRef
	}
	return s.poller.Confirm(ctx, token, sessionID)
}

// Cart возвращает корзину пользователя.
func (s *Service) Cart(ctx context.Context, token string) (*model.Cart, error) {
	return s.backend.Cart(ctx, token)
}

// AddToCart добавляет товар в корзину пользователя.
func (s *Service) AddToCart(ctx context.Context, token, productID string, quantity int) (*model.Cart, error) {
	if !validation.IsValidObjectID(productID) {
		return nil, ErrInvalidObjectID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.backend.AddToCart(ctx, token, productID, quantity)
}

// UpdateCartItem изменяет количество товара в корзине.
func (s *Service) UpdateCartItem(ctx context.Context, token, productID string, quantity int) (*model.Cart, error) {
	if !validation.IsValidObjectID(productID) {
		return nil, ErrInvalidObjectID
	}
	if !validation.IsValidQuantity(quantity) {
		return nil, ErrInvalidQuantity
	}
	return s.backend.UpdateCartItem(ctx, token, productID, quantity)
}

// ClearCart очищает корзину пользователя.
func (s *Service) ClearCart(ctx context.Context, token string) error {
	return s.backend.ClearCart(ctx, token)
}

// Orders возвращает историю заказов пользователя.
func (s *Service) Orders(ctx context.Context, token string) ([]model.Order, error) {
	return s.backend.Orders(ctx, token)
}

// CancelOrder отменяет заказ пользователя.
func (s *Service) CancelOrder(ctx context.Context, token, orderID string) error {
	if !validation.IsValidObjectID(orderID) {
		return ErrInvalidObjectID
	}
	return s.backend.CancelOrder(ctx, token, orderID)
}

// AdminOrders возвращает заказы всех пользователей для администратора.
func (s *Service) AdminOrders(ctx context.Context, token string) ([]model.Order, error) {
	return s.backend.AdminOrders(ctx, token)
}

// UpdateOrderStatus меняет статус заказа от имени администратора.
func (s *Service) UpdateOrderStatus(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !validation.IsValidObjectID(orderID) {
		return nil, ErrInvalidObjectID
	}
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	return s.backend.UpdateOrderStatus(ctx, token, orderID, status)
}

// Profile возвращает профиль пользователя.
func (s *Service) Profile(ctx context.Context, token string) (*model.Profile, error) {
	return s.backend.Profile(ctx, token)
}

// UpdateProfile обновляет профиль пользователя. Имя пользователя и улица
// обязательны для оформления заказа.
func (s *Service) UpdateProfile(ctx context.Context, token string, profile model.Profile) (*model.Profile, error) {
	if profile.Username == "" || profile.Address.Street == "" {
		return nil, ErrProfileIncomplete
	}
	return s.backend.UpdateProfile(ctx, token, profile)
}

// CreateProduct создаёт товар от имени администратора.
func (s *Service) CreateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error) {
	return s.backend.CreateProduct(ctx, token, product)
}

// UpdateProduct обновляет товар от имени администратора.
func (s *Service) UpdateProduct(ctx context.Context, token string, product model.Product) (*model.Product, error) {
	if !validation.IsValidObjectID(product.ID) {
		return nil, ErrInvalidObjectID
	}
	return s.backend.UpdateProduct(ctx, token, product)
}

// DeleteProduct удаляет товар от имени администратора.
func (s *Service) DeleteProduct(ctx context.Context, token, productID string) error {
	if !validation.IsValidObjectID(productID) {
		return ErrInvalidObjectID
	}
	return s.backend.DeleteProduct(ctx, token, productID)
}

// CreateCategory создаёт категорию от имени администратора.
func (s *Service) CreateCategory(ctx context.Context, token string, category model.Category) (*model.Category, error) {
	return s.backend.CreateCategory(ctx, token, category)
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sharifShaikh1/cravecrafters-frontend/internal/backend"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/catalog"
	"github.com/sharifShaikh1/cravecrafters-frontend/internal/model"
)

type stubBackend struct {
	Backend

	profile    *model.Profile
	profileErr error

	session    *model.CheckoutSession
	sessionErr error

	sessionCalls int

	cart *model.Cart
}

func (s *stubBackend) Profile(ctx context.Context, token string) (*model.Profile, error) {
	return s.profile, s.profileErr
}

func (s *stubBackend) CreateCheckoutSession(ctx context.Context, token string) (*model.CheckoutSession, error) {
	s.sessionCalls++
	return s.session, s.sessionErr
}

func (s *stubBackend) AddToCart(ctx context.Context, token, productID string, quantity int) (*model.Cart, error) {
	return s.cart, nil
}

type stubCatalog struct {
	snap *catalog.Snapshot
	err  error
}

func (s *stubCatalog) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	return s.snap, s.err
}

type stubConfirmer struct {
	attempt model.ConfirmationAttempt
	err     error

	lastToken   string
	lastSession string
}

func (s *stubConfirmer) Confirm(ctx context.Context, token, sessionID string) (model.ConfirmationAttempt, error) {
	s.lastToken = token
	s.lastSession = sessionID
	return s.attempt, s.err
}

const validID = "64fa3c2b1d9e8a7b6c5d4e3f"

func TestSearchProducts_UsesSnapshot(t *testing.T) {
	cat := &stubCatalog{
		snap: &catalog.Snapshot{
			Products: []model.Product{
				{ID: "1", Name: "Veg Burger"},
				{ID: "2", Name: "Pizza"},
			},
		},
	}
	svc := NewService(&stubBackend{}, cat, &stubConfirmer{})

	res, err := svc.SearchProducts(context.Background(), "burger")
	if err != nil {
		t.Fatalf("SearchProducts error: %v", err)
	}
	if len(res) != 1 || res[0].ID != "1" {
		t.Fatalf("unexpected results: %+v", res)
	}
}

func TestSearchProducts_SnapshotError(t *testing.T) {
	wantErr := errors.New("backend unavailable")
	svc := NewService(&stubBackend{}, &stubCatalog{err: wantErr}, &stubConfirmer{})

	_, err := svc.SearchProducts(context.Background(), "burger")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected snapshot error, got %v", err)
	}
}

func TestCreateCheckout_ProfileIncomplete(t *testing.T) {
	b := &stubBackend{
		profile: &model.Profile{Username: "user"},
		session: &model.CheckoutSession{ID: "cs_1"},
	}
	svc := NewService(b, &stubCatalog{}, &stubConfirmer{})

	_, err := svc.CreateCheckout(context.Background(), "tok")
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
	if b.sessionCalls != 0 {
		t.Fatalf("checkout session created despite incomplete profile")
	}
}

func TestCreateCheckout_OK(t *testing.T) {
	b := &stubBackend{
		profile: &model.Profile{
			Username: "user",
			Address:  model.Address{Street: "Main st. 1"},
		},
		session: &model.CheckoutSession{ID: "cs_1"},
	}
	svc := NewService(b, &stubCatalog{}, &stubConfirmer{})

	session, err := svc.CreateCheckout(context.Background(), "tok")
	if err != nil {
		t.Fatalf("CreateCheckout error: %v", err)
	}
	if session.ID != "cs_1" {
		t.Fatalf("session id = %q, want cs_1", session.ID)
	}
}

func TestConfirmCheckout_InvalidSessionRef(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubCatalog{}, &stubConfirmer{})

	_, err := svc.ConfirmCheckout(context.Background(), "tok", "has space")
	if !errors.Is(err, ErrInvalidSessionRef) {
		t.Fatalf("expected ErrInvalidSessionRef, got %v", err)
	}
}

func TestConfirmCheckout_PassesCredentialExplicitly(t *testing.T) {
	confirmer := &stubConfirmer{
		attempt: model.ConfirmationAttempt{Attempt: 1, Outcome: model.OutcomeSuccess},
	}
	svc := NewService(&stubBackend{}, &stubCatalog{}, confirmer)

	attempt, err := svc.ConfirmCheckout(context.Background(), "tok", "cs_test_1")
	if err != nil {
		t.Fatalf("ConfirmCheckout error: %v", err)
	}
	if attempt.Outcome != model.OutcomeSuccess {
		t.Fatalf("outcome = %s", attempt.Outcome)
	}
	if confirmer.lastToken != "tok" || confirmer.lastSession != "cs_test_1" {
		t.Fatalf("confirmer got token=%q session=%q", confirmer.lastToken, confirmer.lastSession)
	}
}

func TestAddToCart_Validation(t *testing.T) {
	svc := NewService(&stubBackend{cart: &model.Cart{}}, &stubCatalog{}, &stubConfirmer{})

	if _, err := svc.AddToCart(context.Background(), "tok", "not-an-id", 1); !errors.Is(err, ErrInvalidObjectID) {
		t.Fatalf("expected ErrInvalidObjectID, got %v", err)
	}

	if _, err := svc.AddToCart(context.Background(), "tok", validID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	if _, err := svc.AddToCart(context.Background(), "tok", validID, 2); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}
}

func TestUpdateProfile_RequiresAddress(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubCatalog{}, &stubConfirmer{})

	_, err := svc.UpdateProfile(context.Background(), "tok", model.Profile{Username: "user"})
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestProduct_InvalidID(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubCatalog{}, &stubConfirmer{})

	_, err := svc.Product(context.Background(), "not-an-id")
	if !errors.Is(err, ErrInvalidObjectID) {
		t.Fatalf("expected ErrInvalidObjectID, got %v", err)
	}
}

func TestUpdateOrderStatus_Validation(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubCatalog{}, &stubConfirmer{})

	if _, err := svc.UpdateOrderStatus(context.Background(), "tok", "123", model.OrderStatusPaid); !errors.Is(err, ErrInvalidObjectID) {
		t.Fatalf("expected ErrInvalidObjectID, got %v", err)
	}

	if _, err := svc.UpdateOrderStatus(context.Background(), "tok", validID, "shipped"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
	}
}

func TestCancelOrder_InvalidID(t *testing.T) {
	svc := NewService(&stubBackend{}, &stubCatalog{}, &stubConfirmer{})

	err := svc.CancelOrder(context.Background(), "tok", "123")
	if !errors.Is(err, ErrInvalidObjectID) {
		t.Fatalf("expected ErrInvalidObjectID, got %v", err)
	}
}

var _ Backend = (*backend.Client)(nil)

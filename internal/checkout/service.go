package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartpkg "github.com/rahulvarma/shopsphere-backend/internal/cart"
	"github.com/rahulvarma/shopsphere-backend/internal/discounts"
	"github.com/rahulvarma/shopsphere-backend/internal/orders"
	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	"github.com/rahulvarma/shopsphere-backend/pkg/enums"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
	"github.com/rahulvarma/shopsphere-backend/pkg/razorpay"
	"github.com/rahulvarma/shopsphere-backend/pkg/types"
)

// CreateOrderInput carries the checkout payload for order creation.
type CreateOrderInput struct {
	PaymentMethod enums.PaymentMethod
	Note          *string
}

// Prefill seeds the payment widget with buyer details.
type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"contact"`
}

// PaymentInit is the widget parameter set returned by payment initiation.
type PaymentInit struct {
	OrderID         uuid.UUID `json:"order_id"`
	ProviderOrderID string    `json:"razorpay_order_id"`
	Key             string    `json:"key"`
	AmountPaise     int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Prefill         Prefill   `json:"prefill"`
}

// PaymentCallback is the signed result the payment widget posts back.
type PaymentCallback struct {
	ProviderOrderID string
	PaymentID       string
	Signature       string
}

// Service drives the checkout sequence: order creation, payment initiation
// and the terminal callback handling. Every step fails fast; nothing retries.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error)
	InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentInit, error)
	ConfirmPayment(ctx context.Context, userID uuid.UUID, callback PaymentCallback) (*models.Order, error)
	CancelPayment(ctx context.Context, userID uuid.UUID, providerOrderID, reason string) error
}

// ServiceParams wires the checkout service dependencies.
type ServiceParams struct {
	Tx         txRunner
	Users      userLoader
	Addresses  defaultAddressLoader
	Carts      cartpkg.CartRepository
	Orders     orders.OrderRepository
	Discounts  discounts.DiscountRepository
	Sessions   PaymentSessionRepository
	Gateway    paymentGateway
	Cache      sessionCache
	SessionTTL time.Duration
}

type service struct {
	tx         txRunner
	users      userLoader
	addresses  defaultAddressLoader
	carts      cartpkg.CartRepository
	orders     orders.OrderRepository
	discounts  discounts.DiscountRepository
	sessions   PaymentSessionRepository
	gateway    paymentGateway
	cache      sessionCache
	sessionTTL time.Duration
	now        func() time.Time
}

// NewService builds the checkout sequencer from its dependency set.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address loader required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Discounts == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("payment session repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}

	ttl := params.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &service{
		tx:         params.Tx,
		users:      params.Users,
		addresses:  params.Addresses,
		carts:      params.Carts,
		orders:     params.Orders,
		discounts:  params.Discounts,
		sessions:   params.Sessions,
		gateway:    params.Gateway,
		cache:      params.Cache,
		sessionTTL: ttl,
		now:        time.Now,
	}, nil
}

// CreateOrder snapshots the cart into an order after the checkout
// preconditions pass. No mutation happens until every precondition holds.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}

	user, address, err := s.checkPreconditions(ctx, userID)
	if err != nil {
		return nil, err
	}

	record, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	details := cartpkg.BuildDetails(record, s.now())

	snapshot := addressSnapshot(address, user)
	order := &models.Order{
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		Subtotal:        details.Subtotal,
		DiscountAmount:  details.DiscountAmount,
		ShippingFee:     details.ShippingFee,
		GrandTotal:      details.GrandTotal,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: snapshot,
		BillingAddress:  snapshot,
		Note:            input.Note,
	}
	if details.DiscountAmount.IsPositive() && details.DiscountCode != nil {
		order.DiscountCode = details.DiscountCode
	}
	for _, line := range details.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.orders.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	if order.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order persistence returned no identifier")
	}

	return order, nil
}

// InitiatePayment registers a provider order for a pending order and records
// the ephemeral payment session handed to the widget.
func (s *service) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentInit, error) {
	order, err := s.loadOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}
	if order.PaymentMethod != enums.PaymentMethodRazorpay {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is not payable online")
	}

	amountPaise := order.GrandTotal.Shift(2).IntPart()
	if amountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	providerOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  order.ID.String(),
		Notes:    map[string]string{"order_id": order.ID.String()},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating provider order")
	}

	session := &models.PaymentSession{
		OrderID:         order.ID,
		ProviderOrderID: providerOrder.ID,
		KeyID:           s.gateway.KeyID(),
		AmountPaise:     amountPaise,
		Currency:        providerOrder.Currency,
		Status:          enums.PaymentSessionInitiated,
		ExpiresAt:       s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting payment session")
	}

	if s.cache != nil {
		key := s.cache.PaymentSessionKey(providerOrder.ID)
		if err := s.cache.Set(ctx, key, order.ID.String(), s.sessionTTL); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "caching payment session")
		}
	}

	init := &PaymentInit{
		OrderID:         order.ID,
		ProviderOrderID: providerOrder.ID,
		Key:             s.gateway.KeyID(),
		AmountPaise:     amountPaise,
		Currency:        session.Currency,
		Prefill: Prefill{
			Name:  strings.TrimSpace(user.FirstName + " " + user.LastName),
			Email: user.Email,
		},
	}
	if user.Phone != nil {
		init.Prefill.Phone = *user.Phone
	}
	return init, nil
}

// ConfirmPayment settles the signed callback. All three fields must be
// present before anything else happens; a bad signature terminates the
// session without touching the order.
func (s *service) ConfirmPayment(ctx context.Context, userID uuid.UUID, callback PaymentCallback) (*models.Order, error) {
	if callback.ProviderOrderID == "" || callback.PaymentID == "" || callback.Signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodePaymentIntegrity, "incomplete payment data")
	}

	session, err := s.loadSession(ctx, callback.ProviderOrderID)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment session already settled")
	}

	order, err := s.loadOrder(ctx, userID, session.OrderID)
	if err != nil {
		return nil, err
	}

	if s.now().After(session.ExpiresAt) {
		reason := "session expired"
		_ = s.sessions.MarkStatus(ctx, session.ID, enums.PaymentSessionFailed, &reason)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment session expired")
	}

	if !s.gateway.VerifySignature(callback.ProviderOrderID, callback.PaymentID, callback.Signature) {
		reason := "signature verification failed"
		if err := s.sessions.MarkStatus(ctx, session.ID, enums.PaymentSessionFailed, &reason); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording payment failure")
		}
		return nil, pkgerrors.New(pkgerrors.CodePaymentIntegrity, "signature verification failed")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).MarkPaid(ctx, order.ID); err != nil {
			return fmt.Errorf("marking order paid: %w", err)
		}
		if order.DiscountCode != nil {
			repo := s.discounts.WithTx(tx)
			discount, err := repo.FindByCode(ctx, *order.DiscountCode)
			if err == nil {
				if err := repo.IncrementUsage(ctx, discount.ID); err != nil {
					return fmt.Errorf("incrementing discount usage: %w", err)
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("loading discount: %w", err)
			}
		}
		if err := s.carts.WithTx(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}
		if err := s.sessions.WithTx(tx).Consume(ctx, session.ID); err != nil {
			return fmt.Errorf("consuming payment session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settling payment")
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, s.cache.PaymentSessionKey(callback.ProviderOrderID))
	}

	return s.loadOrder(ctx, userID, order.ID)
}

// CancelPayment records a widget dismissal. The session becomes terminal; the
// order stays pending and a new checkout starts a fresh session.
func (s *service) CancelPayment(ctx context.Context, userID uuid.UUID, providerOrderID, reason string) error {
	if strings.TrimSpace(providerOrderID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "provider order id is required")
	}

	session, err := s.loadSession(ctx, providerOrderID)
	if err != nil {
		return err
	}
	if session.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment session already settled")
	}

	if _, err := s.loadOrder(ctx, userID, session.OrderID); err != nil {
		return err
	}

	var failure *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		failure = &trimmed
	}
	if err := s.sessions.MarkStatus(ctx, session.ID, enums.PaymentSessionCancelled, failure); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling payment session")
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, s.cache.PaymentSessionKey(providerOrderID))
	}
	return nil
}

// checkPreconditions verifies the user can check out at all: active account,
// phone on file, and a default address that names a city. Each failure is its
// own error and nothing is mutated.
func (s *service) checkPreconditions(ctx context.Context, userID uuid.UUID) (*models.User, *models.Address, error) {
	if userID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "account disabled")
	}
	if user.Phone == nil || strings.TrimSpace(*user.Phone) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "add a phone number to your profile before checkout")
	}

	address, err := s.addresses.DefaultAddress(ctx, userID)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "set a default shipping address before checkout")
		}
		return nil, nil, err
	}
	if strings.TrimSpace(address.City) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "default address is missing a city")
	}

	return user, address, nil
}

func (s *service) loadOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.orders.FindForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) loadSession(ctx context.Context, providerOrderID string) (*models.PaymentSession, error) {
	session, err := s.sessions.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment session")
	}
	return session, nil
}

func addressSnapshot(address *models.Address, user *models.User) types.Address {
	snapshot := types.Address{
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		Phone:      address.Phone,
	}
	if snapshot.Phone == nil {
		snapshot.Phone = user.Phone
	}
	return snapshot
}

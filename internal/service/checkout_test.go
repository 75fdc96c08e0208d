package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/menstyle/storefront/internal/domain"
	apperrors "github.com/menstyle/storefront/pkg/errors"
	"github.com/menstyle/storefront/pkg/validator"
)

func newTestCheckoutService(carts *mockCartRepository, orders *mockOrderRepository) *CheckoutService {
	return NewCheckoutService(carts, orders, newTestProducer(), newTestLogger(), "5511999999999")
}

func checkoutCart() *domain.Cart {
	cart := newCartWithItem("sess-1")
	cart.AddItem(domain.LineItem{
		ProductID: "prod-2",
		Name:      "Calça Jeans",
		UnitPrice: 12990,
		Size:      "42",
		Quantity:  1,
	})
	return cart
}

func validCheckoutInput() CheckoutInput {
	return CheckoutInput{
		Name:    "João Silva",
		Phone:   "11988887777",
		Address: "Rua das Flores, 123 - São Paulo",
	}
}

func TestCheckoutSubmit_Success(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(carts, orders)
	ctx := context.Background()

	cart := checkoutCart()
	carts.On("Get", ctx, "sess-1").Return(cart, nil)
	orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("Delete", ctx, "sess-1").Return(nil)

	result, err := svc.Submit(ctx, "sess-1", validCheckoutInput())

	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.NotEmpty(t, result.Order.ID)
	assert.Equal(t, "João Silva", result.Order.CustomerName)
	assert.Equal(t, domain.OrderTypeOnline, result.Order.Type)
	assert.Empty(t, result.Order.PaymentMethod)
	assert.Equal(t, cart.Total(), result.Order.Total)
	assert.Len(t, result.Order.Items, 2)

	assert.True(t, strings.HasPrefix(result.HandoffURL, "https://wa.me/5511999999999?text="))
	carts.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestCheckoutSubmit_MissingPhone(t *testing.T) {
	svc := newTestCheckoutService(new(mockCartRepository), new(mockOrderRepository))

	input := validCheckoutInput()
	input.Phone = ""

	_, err := svc.Submit(context.Background(), "sess-1", input)

	var vErr *validator.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields(), "Phone")
}

func TestCheckoutSubmit_EmptyCart(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(carts, orders)
	ctx := context.Background()

	empty := &domain.Cart{ID: "cart-1", SessionID: "sess-1", Items: []domain.LineItem{}}
	carts.On("Get", ctx, "sess-1").Return(empty, nil)

	_, err := svc.Submit(ctx, "sess-1", validCheckoutInput())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutSubmit_PersistFailureKeepsCart(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(carts, orders)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(checkoutCart(), nil)
	orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(assert.AnError)

	_, err := svc.Submit(ctx, "sess-1", validCheckoutInput())

	assert.Error(t, err)
	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckoutSubmit_CartCleanupFailureDoesNotFail(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(carts, orders)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(checkoutCart(), nil)
	orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("Delete", ctx, "sess-1").Return(assert.AnError)

	result, err := svc.Submit(ctx, "sess-1", validCheckoutInput())

	require.NoError(t, err)
	assert.NotNil(t, result.Order)
}

func TestFormatHandoffMessage(t *testing.T) {
	cart := checkoutCart()
	input := validCheckoutInput()

	msg := FormatHandoffMessage(input, cart)

	assert.Contains(t, msg, "🛒 *Novo Pedido - MenStyle*")
	assert.Contains(t, msg, "👤 *Cliente:* João Silva")
	assert.Contains(t, msg, "📱 *Telefone:* 11988887777")
	assert.Contains(t, msg, "📍 *Endereço:* Rua das Flores, 123 - São Paulo")
	assert.Contains(t, msg, "• Camisa Polo (M)")
	assert.Contains(t, msg, "Quantidade: 2")
	assert.Contains(t, msg, "Preço unitário: R$ 79,90")
	assert.Contains(t, msg, "Subtotal: R$ 159,80")
	assert.Contains(t, msg, "• Calça Jeans (42)")
	assert.Contains(t, msg, "💰 *Total: "+domain.FormatBRL(cart.Total())+"*")
	assert.Contains(t, msg, "Obrigado pela preferência! 🙏")

	// Every line item name and the total survive into the message.
	for _, item := range cart.Items {
		assert.Contains(t, msg, item.Name)
	}
}

func TestHandoffURL_Encoding(t *testing.T) {
	svc := newTestCheckoutService(new(mockCartRepository), new(mockOrderRepository))

	raw := svc.HandoffURL("Novo Pedido - MenStyle\nTotal: R$ 79,90")

	assert.True(t, strings.HasPrefix(raw, "https://wa.me/5511999999999?text="))
	assert.NotContains(t, raw, "+")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Novo Pedido - MenStyle\nTotal: R$ 79,90", parsed.Query().Get("text"))
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito/backend/internal/cart"
	"github.com/mercadito/backend/internal/checkout"
	"github.com/mercadito/backend/internal/entity"
)

type checkoutFixture struct {
	svc         *CheckoutService
	carts       *cart.Store
	checkouts   *checkout.Store
	orderRepo   *fakeOrderRepo
	profileRepo *fakeProfileRepo
	publisher   *fakePublisher
}

func newCheckoutFixture(products ...entity.Product) *checkoutFixture {
	f := &checkoutFixture{
		carts:       cart.NewStore(),
		checkouts:   checkout.NewStore(),
		orderRepo:   newFakeOrderRepo(),
		profileRepo: newFakeProfileRepo(),
		publisher:   &fakePublisher{},
	}
	f.svc = NewCheckoutService(f.carts, f.checkouts, newFakeProductRepo(products...),
		f.orderRepo, f.profileRepo, f.publisher)
	return f
}

func (f *checkoutFixture) fillForm(userID string) {
	f.checkouts.Get(userID).Update(checkout.Form{
		FullName:      "Ana Pérez",
		Phone:         "53512345",
		Email:         "ana@example.com",
		Address:       "Calle 23 #456",
		Municipality:  "Plaza",
		DeliveryTime:  "morning",
		PaymentMethod: "cash",
	})
}

func TestSubmit_PlacesOrderAndResetsSession(t *testing.T) {
	product := entity.Product{ID: "p1", Name: "Arroz 5kg", Price: 100, Stock: 5, IsActive: true}
	f := newCheckoutFixture(product)

	c := f.carts.Get("u1")
	c.AddItem(product)
	require.NoError(t, c.UpdateQuantity("p1", 2))
	f.fillForm("u1")

	order, err := f.svc.Submit(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, int64(200), order.TotalAmount)
	assert.Equal(t, "u1", order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(100), order.Items[0].PriceAtPurchase)

	require.Len(t, f.orderRepo.created, 1)

	// Cart and checkout state are gone, ready for the next purchase.
	assert.Equal(t, 0, f.carts.Get("u1").Len())
	assert.Equal(t, checkout.StepContact, f.checkouts.Get("u1").Step())
	assert.Equal(t, checkout.Form{}, f.checkouts.Get("u1").Form())

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "orders.placed", f.publisher.events[0].topic)
	event, ok := f.publisher.events[0].event.(entity.OrderPlaced)
	require.True(t, ok)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, int64(200), event.TotalAmount)
}

func TestSubmit_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.fillForm("u1")

	_, err := f.svc.Submit(context.Background(), "u1")
	assert.ErrorIs(t, err, entity.ErrEmptyCart)
}

func TestSubmit_IncompleteForm(t *testing.T) {
	product := entity.Product{ID: "p1", Name: "Arroz", Price: 100, Stock: 5, IsActive: true}
	f := newCheckoutFixture(product)
	f.carts.Get("u1").AddItem(product)

	_, err := f.svc.Submit(context.Background(), "u1")
	var vErr *checkout.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Empty(t, f.orderRepo.created)
}

func TestSubmit_InsufficientStockLeavesCartIntact(t *testing.T) {
	product := entity.Product{ID: "p1", Name: "Aceite", Price: 100, Stock: 1, IsActive: true}
	f := newCheckoutFixture(product)

	c := f.carts.Get("u1")
	c.AddItem(product)
	c.AddItem(product) // quantity 2, stock 1
	f.fillForm("u1")

	_, err := f.svc.Submit(context.Background(), "u1")
	assert.ErrorIs(t, err, entity.ErrInsufficientStock)

	assert.Equal(t, 1, f.carts.Get("u1").Len(), "cart must survive a failed submit")
	assert.Empty(t, f.orderRepo.created)
	assert.Empty(t, f.publisher.events)
}

func TestSubmit_OrderCreationFailureLeavesCartIntact(t *testing.T) {
	product := entity.Product{ID: "p1", Name: "Arroz", Price: 100, Stock: 5, IsActive: true}
	f := newCheckoutFixture(product)
	f.orderRepo.createErr = errors.New("connection reset")

	f.carts.Get("u1").AddItem(product)
	f.fillForm("u1")

	_, err := f.svc.Submit(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, 1, f.carts.Get("u1").Len())
	assert.Empty(t, f.publisher.events)
}

func TestSubmit_SavesProfileWhenRequested(t *testing.T) {
	product := entity.Product{ID: "p1", Name: "Arroz", Price: 100, Stock: 5, IsActive: true}
	f := newCheckoutFixture(product)

	f.carts.Get("u1").AddItem(product)
	f.fillForm("u1")
	form := f.checkouts.Get("u1").Form()
	form.SaveProfile = true
	f.checkouts.Get("u1").Update(form)

	_, err := f.svc.Submit(context.Background(), "u1")
	require.NoError(t, err)

	saved, err := f.profileRepo.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", saved.FullName)
	assert.Equal(t, "Plaza", saved.Municipality)
}

func TestSubmit_ProfileSaveFailureDoesNotBlockOrder(t *testing.T) {
	product := entity.Product{ID: "p1", Name: "Arroz", Price: 100, Stock: 5, IsActive: true}
	f := newCheckoutFixture(product)
	f.profileRepo.upsertErr = errors.New("profiles table on fire")

	f.carts.Get("u1").AddItem(product)
	f.fillForm("u1")
	form := f.checkouts.Get("u1").Form()
	form.SaveProfile = true
	f.checkouts.Get("u1").Update(form)

	order, err := f.svc.Submit(context.Background(), "u1")
	require.NoError(t, err, "profile save is best-effort")
	assert.NotNil(t, order)
}

func TestSubmit_PublishFailureDoesNotBlockOrder(t *testing.T) {
	product := entity.Product{ID: "p1", Name: "Arroz", Price: 100, Stock: 5, IsActive: true}
	f := newCheckoutFixture(product)
	f.publisher.err = errors.New("broker down")

	f.carts.Get("u1").AddItem(product)
	f.fillForm("u1")

	order, err := f.svc.Submit(context.Background(), "u1")
	require.NoError(t, err, "the order stands even if the event never leaves")
	require.Len(t, f.orderRepo.created, 1)
	assert.Equal(t, order.ID, f.orderRepo.created[0].ID)
}

func TestCheckStock(t *testing.T) {
	f := newCheckoutFixture(
		entity.Product{ID: "p1", Name: "Arroz", Price: 100, Stock: 5, IsActive: true},
		entity.Product{ID: "p2", Name: "Aceite", Price: 200, Stock: 1, IsActive: true},
	)

	c := f.carts.Get("u1")
	c.AddItem(entity.Product{ID: "p1", Name: "Arroz", Price: 100, Stock: 5})
	c.AddItem(entity.Product{ID: "p2", Name: "Aceite", Price: 200, Stock: 1})
	require.NoError(t, c.UpdateQuantity("p2", 1))

	check, err := f.svc.CheckStock(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, check.AllAvailable)

	// Stock drops under the requested quantity.
	c.AddItem(entity.Product{ID: "p2", Name: "Aceite", Price: 200, Stock: 1})
	check, err = f.svc.CheckStock(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, check.AllAvailable)
	require.Len(t, check.Results, 2)
	assert.True(t, check.Results[0].IsAvailable)
	assert.False(t, check.Results[1].IsAvailable)
	assert.Equal(t, 2, check.Results[1].Requested)
	assert.Equal(t, 1, check.Results[1].Available)
}

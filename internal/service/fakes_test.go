package service

import (
	"context"
	"time"

	"github.com/mercadito/backend/internal/entity"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return r
}

func (r *fakeProductRepo) FindActive(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Deactivate(ctx context.Context, id string) error {
	p, ok := r.products[id]
	if !ok {
		return entity.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (r *fakeProductRepo) Categories(ctx context.Context) ([]entity.Category, error) {
	return nil, nil
}

func (r *fakeProductRepo) CheckStock(ctx context.Context, items []entity.OrderItem) ([]entity.StockCheck, error) {
	results := make([]entity.StockCheck, 0, len(items))
	for _, it := range items {
		p, ok := r.products[it.ProductID]
		if !ok || !p.IsActive {
			results = append(results, entity.StockCheck{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Requested:   it.Quantity,
			})
			continue
		}
		results = append(results, entity.StockCheck{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   it.Quantity,
			Available:   p.Stock,
			IsAvailable: p.Stock >= it.Quantity,
		})
	}
	return results, nil
}

func (r *fakeProductRepo) LowStock(ctx context.Context, threshold, limit int) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.IsActive && p.Stock <= threshold && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int, error) {
	return len(r.products), nil
}

func (r *fakeProductRepo) Seed(ctx context.Context, categories []entity.Category, products []entity.Product) error {
	return nil
}

type fakeOrderRepo struct {
	orders     map[string]*entity.Order
	created    []*entity.Order
	createErr  error
	qualifying bool

	statusUpdates []entity.OrderStatus
}

func newFakeOrderRepo(orders ...entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*entity.Order)}
	for i := range orders {
		o := orders[i]
		r.orders[o.ID] = &o
	}
	return r
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *o
	r.orders[o.ID] = &cp
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) FindSince(ctx context.Context, since time.Time) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range r.orders {
		if o.CreatedAt.After(since) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return entity.ErrInvalidTransition
	}
	o.Status = to
	r.statusUpdates = append(r.statusUpdates, to)
	return nil
}

func (r *fakeOrderRepo) HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error) {
	return r.qualifying, nil
}

type fakeReviewRepo struct {
	reviews map[string]*entity.Review // keyed by userID+"/"+productID
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*entity.Review)}
}

func (r *fakeReviewRepo) FindByProduct(ctx context.Context, productID string) ([]entity.Review, error) {
	var out []entity.Review
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindUserReview(ctx context.Context, userID, productID string) (*entity.Review, error) {
	rv, ok := r.reviews[userID+"/"+productID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r *fakeReviewRepo) Insert(ctx context.Context, rv *entity.Review) error {
	key := rv.UserID + "/" + rv.ProductID
	if _, ok := r.reviews[key]; ok {
		return entity.ErrDuplicateReview
	}
	cp := *rv
	r.reviews[key] = &cp
	return nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, rv *entity.Review) error {
	key := rv.UserID + "/" + rv.ProductID
	if _, ok := r.reviews[key]; !ok {
		return entity.ErrNotFound
	}
	cp := *rv
	r.reviews[key] = &cp
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id, userID string) error {
	for key, rv := range r.reviews {
		if rv.ID == id && rv.UserID == userID {
			delete(r.reviews, key)
			return nil
		}
	}
	return entity.ErrNotFound
}

type fakeFavoriteRepo struct {
	favorites map[string]bool // userID+"/"+productID
	insertErr error
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]bool)}
}

func (r *fakeFavoriteRepo) FindByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	return nil, nil
}

func (r *fakeFavoriteRepo) Exists(ctx context.Context, userID, productID string) (bool, error) {
	return r.favorites[userID+"/"+productID], nil
}

func (r *fakeFavoriteRepo) Insert(ctx context.Context, userID, productID string) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.favorites[userID+"/"+productID] = true
	return nil
}

func (r *fakeFavoriteRepo) Delete(ctx context.Context, userID, productID string) error {
	delete(r.favorites, userID+"/"+productID)
	return nil
}

type fakeProfileRepo struct {
	profiles  map[string]*entity.Profile
	upsertErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*entity.Profile)}
}

func (r *fakeProfileRepo) FindByUser(ctx context.Context, userID string) (*entity.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) Count(ctx context.Context) (int, error) {
	return len(r.profiles), nil
}

type fakeRoleRepo struct {
	roles map[string]string
}

func (r *fakeRoleRepo) FindRole(ctx context.Context, userID string) (string, error) {
	if role, ok := r.roles[userID]; ok {
		return role, nil
	}
	return "user", nil
}

func (r *fakeRoleRepo) FindAll(ctx context.Context) (map[string]string, error) {
	return r.roles, nil
}

type publishedEvent struct {
	topic string
	key   string
	event any
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

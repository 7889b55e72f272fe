package http

import (
	"encoding/json"
	"net/http"

	"github.com/mercadito/backend/internal/auth"
	"github.com/mercadito/backend/internal/cart"
	"github.com/mercadito/backend/internal/checkout"
	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/service"
)

// Handler handles HTTP requests for the storefront.
type Handler struct {
	catalog     *service.CatalogService
	orders      *service.OrderService
	checkoutSvc *service.CheckoutService
	reviews     *service.ReviewService
	favorites   *service.FavoriteService
	profiles    *service.ProfileService
	stats       *service.StatsService
	carts       *cart.Store
	verifier    *auth.Verifier
}

func NewHandler(
	catalog *service.CatalogService,
	orders *service.OrderService,
	checkoutSvc *service.CheckoutService,
	reviews *service.ReviewService,
	favorites *service.FavoriteService,
	profiles *service.ProfileService,
	stats *service.StatsService,
	carts *cart.Store,
	verifier *auth.Verifier,
) *Handler {
	return &Handler{
		catalog:     catalog,
		orders:      orders,
		checkoutSvc: checkoutSvc,
		reviews:     reviews,
		favorites:   favorites,
		profiles:    profiles,
		stats:       stats,
		carts:       carts,
		verifier:    verifier,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Public catalog.
	mux.HandleFunc("GET /api/products", h.handleGetProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	mux.HandleFunc("GET /api/products/{id}/reviews", h.handleGetReviews)
	mux.HandleFunc("GET /api/products/{id}/rating", h.handleGetRating)
	mux.HandleFunc("GET /api/categories", h.handleGetCategories)

	// Cart.
	mux.HandleFunc("GET /api/cart", h.requireUser(h.handleGetCart))
	mux.HandleFunc("POST /api/cart/items", h.requireUser(h.handleAddCartItem))
	mux.HandleFunc("PATCH /api/cart/items/{productID}", h.requireUser(h.handleUpdateCartItem))
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.requireUser(h.handleRemoveCartItem))
	mux.HandleFunc("DELETE /api/cart", h.requireUser(h.handleClearCart))

	// Checkout flow.
	mux.HandleFunc("GET /api/checkout", h.requireUser(h.handleGetCheckout))
	mux.HandleFunc("PUT /api/checkout", h.requireUser(h.handleUpdateCheckout))
	mux.HandleFunc("POST /api/checkout/next", h.requireUser(h.handleCheckoutNext))
	mux.HandleFunc("POST /api/checkout/back", h.requireUser(h.handleCheckoutBack))
	mux.HandleFunc("POST /api/checkout/stock-check", h.requireUser(h.handleStockCheck))
	mux.HandleFunc("POST /api/checkout/submit", h.requireUser(h.handleCheckoutSubmit))

	// Orders.
	mux.HandleFunc("GET /api/orders", h.requireUser(h.handleGetUserOrders))
	mux.HandleFunc("GET /api/orders/{id}", h.requireUser(h.handleGetOrder))

	// Reviews.
	mux.HandleFunc("GET /api/products/{id}/review", h.requireUser(h.handleGetUserReview))
	mux.HandleFunc("PUT /api/products/{id}/review", h.requireUser(h.handleSubmitReview))
	mux.HandleFunc("DELETE /api/products/{id}/review", h.requireUser(h.handleDeleteReview))

	// Favorites.
	mux.HandleFunc("GET /api/favorites", h.requireUser(h.handleGetFavorites))
	mux.HandleFunc("POST /api/favorites/{productID}/toggle", h.requireUser(h.handleToggleFavorite))

	// Profile.
	mux.HandleFunc("GET /api/profile", h.requireUser(h.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", h.requireUser(h.handleUpdateProfile))

	// Admin.
	mux.HandleFunc("GET /api/admin/orders", h.requireAdmin(h.handleAdminOrders))
	mux.HandleFunc("PATCH /api/admin/orders/{id}/status", h.requireAdmin(h.handleUpdateOrderStatus))
	mux.HandleFunc("GET /api/admin/products", h.requireAdmin(h.handleAdminProducts))
	mux.HandleFunc("POST /api/admin/products", h.requireAdmin(h.handleCreateProduct))
	mux.HandleFunc("PUT /api/admin/products/{id}", h.requireAdmin(h.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/admin/products/{id}", h.requireAdmin(h.handleDeleteProduct))
	mux.HandleFunc("GET /api/admin/users", h.requireAdmin(h.handleAdminUsers))
	mux.HandleFunc("GET /api/admin/stats", h.requireAdmin(h.handleAdminStats))
}

// --- Catalog ---

func (h *Handler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ActiveProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// --- Cart ---

type cartResponse struct {
	Items []cart.Item `json:"items"`
	Total int64       `json:"total"`
}

func (h *Handler) cartJSON(w http.ResponseWriter, userID string) {
	c := h.carts.Get(userID)
	respondJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.TotalPrice()})
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	h.cartJSON(w, userID)
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !p.IsActive {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	userID, _ := auth.UserID(r.Context())
	h.carts.Get(userID).AddItem(*p)
	h.cartJSON(w, userID)
}

func (h *Handler) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := auth.UserID(r.Context())
	if err := h.carts.Get(userID).UpdateQuantity(r.PathValue("productID"), req.Quantity); err != nil {
		respondServiceError(w, err)
		return
	}
	h.cartJSON(w, userID)
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	h.carts.Get(userID).RemoveItem(r.PathValue("productID"))
	h.cartJSON(w, userID)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	h.carts.Get(userID).Clear()
	h.cartJSON(w, userID)
}

// --- Checkout ---

type checkoutResponse struct {
	Step string        `json:"step"`
	Form checkout.Form `json:"form"`
}

func (h *Handler) checkoutJSON(w http.ResponseWriter, userID string) {
	co := h.checkoutSvc.Checkout(userID)
	respondJSON(w, http.StatusOK, checkoutResponse{Step: co.Step().String(), Form: co.Form()})
}

func (h *Handler) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	h.checkoutJSON(w, userID)
}

func (h *Handler) handleUpdateCheckout(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := auth.UserID(r.Context())
	h.checkoutSvc.Checkout(userID).Update(form)
	h.checkoutJSON(w, userID)
}

func (h *Handler) handleCheckoutNext(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	if err := h.checkoutSvc.Checkout(userID).Next(); err != nil {
		respondServiceError(w, err)
		return
	}
	h.checkoutJSON(w, userID)
}

func (h *Handler) handleCheckoutBack(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	h.checkoutSvc.Checkout(userID).Back()
	h.checkoutJSON(w, userID)
}

func (h *Handler) handleStockCheck(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	result, err := h.checkoutSvc.CheckStock(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	order, err := h.checkoutSvc.Submit(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// --- Orders ---

func (h *Handler) handleGetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	orders, err := h.orders.UserOrders(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	admin := auth.Role(r.Context()) == auth.RoleAdmin
	order, err := h.orders.Order(r.Context(), r.PathValue("id"), userID, admin)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// The timeline position drives the progress rendering; cancelled orders
	// get a banner instead.
	pos, onTimeline := entity.TimelinePosition(order.Status)
	respondJSON(w, http.StatusOK, map[string]any{
		"order":             order,
		"timeline_position": pos,
		"cancelled":         !onTimeline,
	})
}

// --- Reviews ---

func (h *Handler) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ProductReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) handleGetRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.reviews.Rating(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rating)
}

// handleGetUserReview returns the caller's own review of a product, used to
// prefill the edit form.
func (h *Handler) handleGetUserReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	review, err := h.reviews.UserReview(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (h *Handler) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := auth.UserID(r.Context())
	review, err := h.reviews.Submit(r.Context(), userID, r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (h *Handler) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	if err := h.reviews.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Favorites ---

func (h *Handler) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	favorites, err := h.favorites.Favorites(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, favorites)
}

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	isFavorite, err := h.favorites.Toggle(r.Context(), userID, r.PathValue("productID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_favorite": isFavorite})
}

// --- Profile ---

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	profile, err := h.profiles.Profile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	role, err := h.profiles.Role(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, service.UserWithRole{Profile: *profile, Role: role})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := auth.UserID(r.Context())
	profile, err := h.profiles.Update(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// --- Admin ---

func (h *Handler) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.AllOrders(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status entity.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.AllProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.profiles.AllUsers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	storeRepo "pestguard/database/repository/store"
	"pestguard/middleware"
	storeSvc "pestguard/services/store"
)

// StoreHandler exposes product browsing, the cart, and checkout.
type StoreHandler struct {
	Store storeSvc.StoreService
}

func NewStoreHandler(store storeSvc.StoreService) *StoreHandler {
	return &StoreHandler{Store: store}
}

func (h *StoreHandler) ListProducts(c *gin.Context) {
	products, err := h.Store.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *StoreHandler) GetProduct(c *gin.Context) {
	product, err := h.Store.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *StoreHandler) AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	item, err := h.Store.AddToCart(c.Request.Context(), c.GetString(middleware.CtxUserID), input.ProductID, input.Quantity)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *StoreHandler) UpdateCartItem(c *gin.Context) {
	var input struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	err := h.Store.UpdateCartItem(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), input.Quantity)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *StoreHandler) RemoveCartItem(c *gin.Context) {
	err := h.Store.RemoveCartItem(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *StoreHandler) ListCart(c *gin.Context) {
	items, err := h.Store.ListCart(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cart", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *StoreHandler) Checkout(c *gin.Context) {
	var input struct {
		DeliveryAddress string `json:"delivery_address" binding:"required"`
		Phone           string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	ordered, err := h.Store.Checkout(c.Request.Context(), c.GetString(middleware.CtxUserID), input.DeliveryAddress, input.Phone)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordered)
}

func (h *StoreHandler) ListOrders(c *gin.Context) {
	orders, err := h.Store.ListOrders(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func respondStoreError(c *gin.Context, err error) {
	var oversell *storeSvc.OversellError
	switch {
	case errors.As(err, &oversell):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"product_id": oversell.ProductID,
		})
	case errors.Is(err, storeSvc.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storeRepo.ErrProductNotFound), errors.Is(err, storeRepo.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed", "details": err.Error()})
	}
}

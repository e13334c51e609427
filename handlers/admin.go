package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pestguard/models"
	bookingSvc "pestguard/services/booking"
	catalogSvc "pestguard/services/catalog"
	storeSvc "pestguard/services/store"
	technicianSvc "pestguard/services/technician"
	userSvc "pestguard/services/user"
)

// AdminHandler exposes the admin surface: accounts, catalog, store, leave
// decisions, and the full booking ledger.
type AdminHandler struct {
	Users       userSvc.UserService
	Catalog     catalogSvc.CatalogService
	Store       storeSvc.StoreService
	Technicians technicianSvc.TechnicianService
	Bookings    bookingSvc.BookingService
}

func NewAdminHandler(users userSvc.UserService, catalog catalogSvc.CatalogService, store storeSvc.StoreService, technicians technicianSvc.TechnicianService, bookings bookingSvc.BookingService) *AdminHandler {
	return &AdminHandler{Users: users, Catalog: catalog, Store: store, Technicians: technicians, Bookings: bookings}
}

// Accounts.

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	user.ID = c.Param("id")
	if err := h.Users.Update(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Technician roster.

func (h *AdminHandler) ListTechnicians(c *gin.Context) {
	techs, err := h.Technicians.ListTechnicians(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list technicians", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, techs)
}

func (h *AdminHandler) GetTechnician(c *gin.Context) {
	tech, err := h.Technicians.GetTechnician(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "technician not found"})
		return
	}
	c.JSON(http.StatusOK, tech)
}

func (h *AdminHandler) CreateTechnician(c *gin.Context) {
	var tech models.Technician
	if err := c.ShouldBindJSON(&tech); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	created, err := h.Technicians.CreateTechnician(c.Request.Context(), &tech)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create technician", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) UpdateTechnician(c *gin.Context) {
	var tech models.Technician
	if err := c.ShouldBindJSON(&tech); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	tech.ID = c.Param("id")
	if err := h.Technicians.UpdateTechnician(c.Request.Context(), &tech); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update technician", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tech)
}

func (h *AdminHandler) DeleteTechnician(c *gin.Context) {
	if err := h.Technicians.DeleteTechnician(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete technician", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Service catalog.

func (h *AdminHandler) CreateService(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	created, err := h.Catalog.Create(c.Request.Context(), &svc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	svc.ID = c.Param("id")
	if err := h.Catalog.Update(c.Request.Context(), &svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *AdminHandler) DeleteService(c *gin.Context) {
	if err := h.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete service", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Product store.

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	created, err := h.Store.CreateProduct(c.Request.Context(), &p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	p.ID = c.Param("id")
	if err := h.Store.UpdateProduct(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.Store.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Leave decisions.

func (h *AdminHandler) PendingLeaves(c *gin.Context) {
	leaves, err := h.Technicians.PendingLeaves(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leaves", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, leaves)
}

func (h *AdminHandler) DecideLeave(c *gin.Context) {
	var input struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	leave, err := h.Technicians.DecideLeave(c.Request.Context(), c.Param("id"), *input.Approve)
	if err != nil {
		respondLeaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, leave)
}

// Booking ledger.

func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Bookings.ListAllBookings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"settlr/internal/auth"
	"settlr/internal/model"
	"settlr/internal/service"
)

const propertyNotFound = "Property not found"

// PropertyHandler handles listing CRUD requests
type PropertyHandler struct {
	propertyService *service.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
	}
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var p model.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.propertyService.CreateListing(c.Request.Context(), identity, &p)
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/properties
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.propertyService.ListVerified(c.Request.Context())
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ListByCity handles GET /api/properties/city?city=
func (h *PropertyHandler) ListByCity(c *gin.Context) {
	properties, err := h.propertyService.ListByCity(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// Mine handles GET /api/properties/mine
func (h *PropertyHandler) Mine(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	properties, err := h.propertyService.ListByOwner(c.Request.Context(), identity.SubjectID)
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// Get handles GET /api/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	property, err := h.propertyService.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Update handles PUT /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	var p model.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated, err := h.propertyService.UpdateListing(c.Request.Context(), identity, id, &p)
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	if err := h.propertyService.DeleteListing(c.Request.Context(), identity, id); err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

// Similar handles GET /api/properties/:id/similar?limit=
func (h *PropertyHandler) Similar(c *gin.Context) {
	id, ok := pathID(c, "id", "property")
	if !ok {
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	properties, err := h.propertyService.Similar(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, properties)
}

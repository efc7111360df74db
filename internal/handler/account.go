package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"settlr/internal/auth"
	"settlr/internal/model"
	"settlr/internal/service"
)

// AccountHandler handles login and tenant profile requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Login handles POST /api/auth/login. The middleware already synced the
// account, so this just returns it.
func (h *AccountHandler) Login(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

// GetProfile handles GET /api/tenant/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	profile, err := h.accountService.GetTenantProfile(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Tenant profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile handles POST /api/tenant/profile
func (h *AccountHandler) SaveProfile(c *gin.Context) {
	user, ok := auth.UserFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req model.TenantProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	profile, err := h.accountService.SaveTenantProfile(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err, "Tenant profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

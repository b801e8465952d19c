package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
)

const userDetailsNotFound = "User details not found"

type UserDetailsHandler struct {
	service *app.UserDetailsService
}

func NewUserDetailsHandler(service *app.UserDetailsService) *UserDetailsHandler {
	return &UserDetailsHandler{service: service}
}

func (h *UserDetailsHandler) Register(r gin.IRouter) {
	g := r.Group("/user-details")
	g.POST("", h.Create)
	g.GET("/email/:email", h.GetByEmail)
	g.GET("/:userId", h.GetByID)
}

func (h *UserDetailsHandler) Create(c *gin.Context) {
	var in domain.UserDetails
	if !bindJSON(c, &in) {
		return
	}
	details, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, userDetailsNotFound, "Failed to save user details")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User details saved successfully", "userDetails": details})
}

func (h *UserDetailsHandler) GetByEmail(c *gin.Context) {
	details, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err, userDetailsNotFound, "Failed to retrieve user details")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *UserDetailsHandler) GetByID(c *gin.Context) {
	details, err := h.service.GetByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, userDetailsNotFound, "Failed to retrieve user details")
		return
	}
	c.JSON(http.StatusOK, details)
}

// AccountHandler serves the registration flow.
type AccountHandler struct {
	service *app.AccountService
}

func NewAccountHandler(service *app.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Register(r gin.IRouter) {
	g := r.Group("/users")
	g.POST("/register", h.Create)
	g.GET("/:id", h.Get)
}

func (h *AccountHandler) Create(c *gin.Context) {
	var reg app.Registration
	if !bindJSON(c, &reg) {
		return
	}
	account, err := h.service.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err, "User not found", "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      account.ID,
		"message": "User registered successfully",
	})
}

func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "User not found", "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, account)
}

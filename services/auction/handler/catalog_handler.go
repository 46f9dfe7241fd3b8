package handler

import (
	"fmt"
	"net/http"

	model "auction-tracker/internal/models"
	"auction-tracker/services/auction/helpers"
	"auction-tracker/utils"

	"github.com/gin-gonic/gin"
)

type CatalogServiceInterface interface {
	CreateItem(name, description string) (model.Item, error)
	GetItem(itemID string) (model.Item, error)
	CreateUser(displayName string) (model.User, error)
	GetUser(userID string) (model.User, error)
}

type CatalogHandler struct {
	service CatalogServiceInterface
}

func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CreateItemHandler handles POST /items
func (h *CatalogHandler) CreateItemHandler(c *gin.Context) {
	var req helpers.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateItemHandler", err)
		return
	}

	item, err := h.service.CreateItem(req.Name, req.Description)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, item, "item created successfully")
	helpers.LogSuccess("CreateItemHandler", "item created successfully", map[string]any{"item_id": item.ItemID})
}

// GetItemHandler handles GET /items/:item_id
func (h *CatalogHandler) GetItemHandler(c *gin.Context) {
	item, err := h.service.GetItem(c.Param("item_id"))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}
	utils.JSONResponse(c, http.StatusOK, item, "item retrieved successfully")
}

// CreateUserHandler handles POST /users
func (h *CatalogHandler) CreateUserHandler(c *gin.Context) {
	var req helpers.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateUserHandler", err)
		return
	}

	user, err := h.service.CreateUser(req.DisplayName)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, user, "user created successfully")
	helpers.LogSuccess("CreateUserHandler", "user created successfully", map[string]any{"user_id": user.UserID})
}

// GetUserHandler handles GET /users/:user_id
func (h *CatalogHandler) GetUserHandler(c *gin.Context) {
	user, err := h.service.GetUser(c.Param("user_id"))
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user, "user retrieved successfully")
}

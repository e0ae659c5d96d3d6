package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/models"
)

// LookupHandler serves the small named lookup tables: subjects, rooms and
// learning contents all share the same CRUD shape.
type LookupHandler struct {
	label   string
	model   func() any
	slice   func() any
	setName func(m any, name string)
}

func NewSubjectHandler() *LookupHandler {
	return &LookupHandler{
		label:   "Subject",
		model:   func() any { return &models.Subject{} },
		slice:   func() any { return &[]models.Subject{} },
		setName: func(m any, name string) { m.(*models.Subject).Name = name },
	}
}

func NewRoomHandler() *LookupHandler {
	return &LookupHandler{
		label:   "Room",
		model:   func() any { return &models.Room{} },
		slice:   func() any { return &[]models.Room{} },
		setName: func(m any, name string) { m.(*models.Room).Name = name },
	}
}

func NewLearningContentHandler() *LookupHandler {
	return &LookupHandler{
		label:   "Learning content",
		model:   func() any { return &models.LearningContent{} },
		slice:   func() any { return &[]models.LearningContent{} },
		setName: func(m any, name string) { m.(*models.LearningContent).Name = name },
	}
}

type lookupInput struct {
	Name string `json:"name" binding:"required"`
}

func (h *LookupHandler) List(c *gin.Context) {
	items := h.slice()
	if err := config.DB.Order("name").Find(items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load entries"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *LookupHandler) Get(c *gin.Context) {
	item := h.model()
	err := config.DB.First(item, c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LookupHandler) Create(c *gin.Context) {
	var input lookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	item := h.model()
	h.setName(item, input.Name)
	if err := config.DB.Create(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create entry"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *LookupHandler) Update(c *gin.Context) {
	item := h.model()
	if err := config.DB.First(item, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input lookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	h.setName(item, input.Name)
	if err := config.DB.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update entry"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LookupHandler) Delete(c *gin.Context) {
	item := h.model()
	if err := config.DB.First(item, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": h.label + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := config.DB.Delete(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.label + " deleted"})
}

// RegisterLookupRoutes mounts the CRUD set on a route group; mutations are
// admin-only.
func (h *LookupHandler) RegisterLookupRoutes(group *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.POST("", adminOnly, h.Create)
	group.PUT("/:id", adminOnly, h.Update)
	group.DELETE("/:id", adminOnly, h.Delete)
}

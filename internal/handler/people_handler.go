package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapbill/snapbill/internal/service"
)

// PeopleHandler handles roster management.
type PeopleHandler struct {
	people *service.PeopleService
}

// NewPeopleHandler creates a PeopleHandler backed by the given service.
func NewPeopleHandler(people *service.PeopleService) *PeopleHandler {
	return &PeopleHandler{people: people}
}

type addPersonRequest struct {
	Name string `json:"name" binding:"required"`
}

// Add creates a roster person.
func (h *PeopleHandler) Add(c *gin.Context) {
	var req addPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	person, err := h.people.AddPerson(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, person)
}

// Remove deletes a roster person and their assignments.
func (h *PeopleHandler) Remove(c *gin.Context) {
	if err := h.people.RemovePerson(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns the roster in insertion order.
func (h *PeopleHandler) List(c *gin.Context) {
	people, err := h.people.ListPeople(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people})
}

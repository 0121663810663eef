package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fixture_lend_tool/app"
	"fixture_lend_tool/engine"
	"fixture_lend_tool/models"
	"fixture_lend_tool/store"
)

type FixtureController struct {
	Engine *engine.Engine
}

func NewFixtureController(e *engine.Engine) *FixtureController {
	return &FixtureController{Engine: e}
}

// GET /api/search?article=...
func (fc *FixtureController) Search(c *gin.Context) {
	res, err := fc.Engine.SearchArticle(c.Request.Context(), c.Query("article"))
	if err != nil {
		writeError(c, err)
		return
	}
	if res.Multiple {
		c.JSON(http.StatusOK, app.H{"found": "multiple", "choices": res.Choices})
		return
	}
	if !res.Found {
		c.JSON(http.StatusOK, app.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, app.H{
		"found":      true,
		"article":    res.Article,
		"partNumber": res.PartNumber,
		"name":       res.Name,
		"systems":    res.Systems,
	})
}

// GET /api/details?article=...&system=...
func (fc *FixtureController) Details(c *gin.Context) {
	d, err := fc.Engine.GetDetails(c.Request.Context(), c.Query("article"), c.Query("system"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/borrow
func (fc *FixtureController) Borrow(c *gin.Context) {
	var req engine.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid request: " + err.Error()})
		return
	}
	loan, err := fc.Engine.Borrow(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{
		"ok":         true,
		"borrowId":   loan.ID,
		"article":    loan.Article,
		"partNumber": loan.PartNumber,
		"system":     loan.System,
		"quantity":   loan.Quantity,
		"location":   loan.Location,
		"timestamp":  loan.BorrowedAt.Format(models.TimeLayout),
	})
}

// POST /api/return — accepts borrowIds: [] or a single borrowId
func (fc *FixtureController) Return(c *gin.Context) {
	var req struct {
		BorrowIDs []string `json:"borrowIds"`
		BorrowID  string   `json:"borrowId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid request: " + err.Error()})
		return
	}
	ids := req.BorrowIDs
	if len(ids) == 0 && strings.TrimSpace(req.BorrowID) != "" {
		ids = []string{req.BorrowID}
	}
	count, ts, err := fc.Engine.Return(c.Request.Context(), ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"ok":        true,
		"returned":  count,
		"timestamp": ts.Format(models.TimeLayout),
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrValidation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, engine.ErrInsufficientAvailability):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, store.ErrSourceUnavailable), errors.Is(err, store.ErrSchema):
		c.JSON(http.StatusServiceUnavailable, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

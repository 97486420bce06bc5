package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fattybrewing"
	"fattybrewing/internal/brewhouse"
	"fattybrewing/internal/logger"
)

type Handler struct {
	svc *brewhouse.Service
}

func NewHandler(svc *brewhouse.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateContainer(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := fattybrewing.ParseKind(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	size, err := fattybrewing.ParseSize(req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.svc.Create(c.Request.Context(), kind, req.Name, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newContainerView(st))
}

// ListContainers returns every container, or those whose name contains
// ?name= when given.
func (h *Handler) ListContainers(c *gin.Context) {
	states, err := h.svc.Find(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]containerView, 0, len(states))
	for _, st := range states {
		views = append(views, newContainerView(st))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetContainer(c *gin.Context) {
	st, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContainerView(st))
}

// AddContent answers 200 on overflow too, with the part that did not fit
// under "overflow".
func (h *Handler) AddContent(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.svc.ParseAmount(c.Request.Context(), c.Param("id"), req.Amount, req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	e := fattybrewing.Entry{Substance: req.Substance, Quantity: q}
	if req.Temperature != "" {
		if e.Temperature, err = fattybrewing.ParseTemperature(req.Temperature); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.ContentType != "" {
		e.Type = fattybrewing.ParseContentType(req.ContentType)
	}

	st, err := h.svc.Add(c.Request.Context(), c.Param("id"), e)
	var overflow *fattybrewing.CapacityExceededError
	switch {
	case errors.As(err, &overflow):
		c.JSON(http.StatusOK, gin.H{
			"container": newContainerView(st),
			"overflow":  overflow.Remainder.String(),
			"error":     overflow.Error(),
		})
	case err != nil:
		writeError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"container": newContainerView(st)})
	}
}

func (h *Handler) RemoveContent(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.svc.ParseAmount(c.Request.Context(), c.Param("id"), req.Amount, req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	removed, err := h.svc.Remove(c.Request.Context(), c.Param("id"), req.Substance, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": newRemovedViews(removed)})
}

func (h *Handler) Heat(c *gin.Context) {
	var req heatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := fattybrewing.ParseTemperature(req.Temperature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Heat(c.Request.Context(), c.Param("id"), t); err != nil {
		writeError(c, err)
		return
	}
	h.respondContainer(c)
}

func (h *Handler) FillTo(c *gin.Context) {
	var req fillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, err := h.svc.ParseAmount(c.Request.Context(), c.Param("id"), req.Level, "")
	if err != nil {
		writeError(c, err)
		return
	}
	st, err := h.svc.FillTo(c.Request.Context(), c.Param("id"), req.Substance, level)
	var overflow *fattybrewing.CapacityExceededError
	switch {
	case errors.As(err, &overflow):
		c.JSON(http.StatusOK, gin.H{"container": newContainerView(st), "overflow": overflow.Remainder.String()})
	case err != nil:
		writeError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"container": newContainerView(st)})
	}
}

func (h *Handler) ConvertToWort(c *gin.Context) {
	replaced, err := h.svc.ConvertToWort(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]entryView, 0, len(replaced))
	for _, e := range replaced {
		views = append(views, newEntryView(e))
	}
	c.JSON(http.StatusOK, gin.H{"replaced": views})
}

func (h *Handler) Ferment(c *gin.Context) {
	var req fermentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d := time.Duration(req.Days * float64(24*time.Hour))
	removed, err := h.svc.Ferment(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fermented": newRemovedViews(removed)})
}

func (h *Handler) IntoKegs(c *gin.Context) {
	var req kegsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.Keg(c.Request.Context(), c.Param("id"), req.Kegs)
	var pe *fattybrewing.PackagingError
	if errors.As(err, &pe) && !pe.Unpackaged.IsZero() {
		c.JSON(http.StatusConflict, gin.H{"error": pe.Error(), "unpackaged": pe.Unpackaged.String()})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondContainer(c)
}

// Transfer answers 200 when some items overflowed the destination; their
// failures are listed under "errors".
func (h *Handler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rubbish, err := h.svc.Transfer(c.Request.Context(), c.Param("id"), req.Destination)
	resp := gin.H{"rubbish": newRemovedViews(rubbish)}
	if err != nil {
		if !errors.Is(err, fattybrewing.ErrCapacityExceeded) {
			writeError(c, err)
			return
		}
		resp["errors"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) respondContainer(c *gin.Context) {
	st, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newContainerView(st))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fattybrewing.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fattybrewing.ErrUnit),
		errors.Is(err, fattybrewing.ErrConversion),
		errors.Is(err, fattybrewing.ErrKind),
		errors.Is(err, fattybrewing.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, fattybrewing.ErrFermentation),
		errors.Is(err, fattybrewing.ErrPackaging),
		errors.Is(err, fattybrewing.ErrAboveLevel),
		errors.Is(err, fattybrewing.ErrCapacityExceeded):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.L().Info("http.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

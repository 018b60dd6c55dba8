package http

import (
	"errors"
	"net/http"
	"time"

	"cakeshop/internal/domain"
	"cakeshop/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type apiResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

type productRequest struct {
	Title            string                `json:"title"`
	Customizable     bool                  `json:"customizable"`
	IsActive         *bool                 `json:"is_active,omitempty"`
	PriceRange       *domain.Range         `json:"price_range,omitempty"`
	WeightsRange     *domain.Range         `json:"weights_range,omitempty"`
	AvailableWeights []domain.WeightOption `json:"available_weights,omitempty"`
	DefaultWeight    *float64              `json:"default_weight,omitempty"`
}

type suggestionRequest struct {
	Suggestions map[string][]string `json:"suggestions"`
}

func (req productRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Title:            req.Title,
		Customizable:     req.Customizable,
		IsActive:         req.IsActive,
		PriceRange:       req.PriceRange,
		WeightsRange:     req.WeightsRange,
		AvailableWeights: req.AvailableWeights,
		DefaultWeight:    req.DefaultWeight,
	}
}

func (s *Server) handleListProducts(c *gin.Context) {
	products, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "products retrieved", products)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	product, err := s.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "product retrieved", product)
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	product, err := s.catalog.Create(c.Request.Context(), req.toInput())
	if err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusCreated, "product created", product)
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	product, err := s.catalog.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "product updated", product)
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "product deleted", nil)
}

func (s *Server) handleGetSuggestions(c *gin.Context) {
	set, err := s.suggestions.Get(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "suggestions retrieved", set)
}

func (s *Server) handleReplaceSuggestions(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	set, err := s.suggestions.Replace(c.Request.Context(), req.Suggestions)
	if err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "suggestions saved", set)
}

func (s *Server) handleClearSuggestions(c *gin.Context) {
	if err := s.suggestions.Clear(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "suggestions cleared", nil)
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrMissingID):
		status, code = http.StatusBadRequest, "MISSING_ID"
	case errors.Is(err, domain.ErrDuplicateTitle):
		status, code = http.StatusConflict, "DUPLICATE_TITLE"
	case errors.Is(err, domain.ErrDuplicateID):
		status, code = http.StatusConflict, "DUPLICATE_ID"
	case errors.Is(err, domain.ErrProductNotFound):
		status, code = http.StatusNotFound, "PRODUCT_NOT_FOUND"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrTimeout):
		status, code = http.StatusGatewayTimeout, "REQUEST_TIMEOUT"
	case errors.Is(err, domain.ErrDatabase):
		status, code = http.StatusInternalServerError, "DATABASE_ERROR"
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("code", code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	writeErrorCode(c, status, code, errorMessage(code, err))
}

// errorMessage keeps 5xx bodies generic; internal detail stays in the log.
func errorMessage(code string, err error) string {
	switch code {
	case "INTERNAL":
		return "internal error"
	case "DATABASE_ERROR":
		return "storage unavailable"
	case "REQUEST_TIMEOUT":
		return "request timed out"
	default:
		return err.Error()
	}
}

func writeSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, apiResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, apiResponse{
		Success:   false,
		Message:   message,
		Error:     code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

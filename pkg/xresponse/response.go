package xresponse

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Response represents standard API response format
type Response struct {
	Code      int         `json:"code"`
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorResponse represents error response format
type ErrorResponse struct {
	Code      int         `json:"code"`
	Status    string      `json:"status"`
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Common error codes
const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeContentTooLong      = "CONTENT_TOO_LONG"
	ErrCodeZeroBid             = "ZERO_BID"
	ErrCodeQueueBusy           = "QUEUE_BUSY"
	ErrCodeTooEarly            = "TOO_EARLY"
	ErrCodeQueueEmpty          = "QUEUE_EMPTY"
	ErrCodeOutOfRange          = "OUT_OF_RANGE"
	ErrCodePaymentFailed       = "PAYMENT_FAILED"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
)

// Success sends success response
func Success(c *gin.Context, message string, data interface{}) {
	response := Response{
		Code:      http.StatusOK,
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	c.JSON(http.StatusOK, response)
}

// Created sends created response (201)
func Created(c *gin.Context, message string, data interface{}) {
	response := Response{
		Code:      http.StatusCreated,
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	c.JSON(http.StatusCreated, response)
}

// Error sends error response
func Error(c *gin.Context, statusCode int, errorCode, message string) {
	response := ErrorResponse{
		Code:      statusCode,
		Status:    "error",
		ErrorCode: errorCode,
		Message:   message,
		Timestamp: time.Now().Unix(),
	}
	c.JSON(statusCode, response)
}

// ErrorWithDetails sends error response with details
func ErrorWithDetails(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	response := ErrorResponse{
		Code:      statusCode,
		Status:    "error",
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Unix(),
	}
	c.JSON(statusCode, response)
}

// BadRequest sends 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, ErrCodeValidationFailed, message)
}

// BadRequestWithCode sends 400 Bad Request response with custom error code
func BadRequestWithCode(c *gin.Context, errorCode, message string) {
	Error(c, http.StatusBadRequest, errorCode, message)
}

// Unauthorized sends 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden sends 403 Forbidden response
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound sends 404 Not Found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalServerError sends 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// QueueBusy sends 409 response for overlapping mutations
func QueueBusy(c *gin.Context, message string) {
	Error(c, http.StatusConflict, ErrCodeQueueBusy, message)
}

// TooEarly sends 425 response when the pop interval has not elapsed
func TooEarly(c *gin.Context, message string) {
	Error(c, http.StatusTooEarly, ErrCodeTooEarly, message)
}

// QueueEmpty sends 404 response for an empty queue
func QueueEmpty(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, ErrCodeQueueEmpty, message)
}

// OutOfRange sends 404 response for an out-of-range index
func OutOfRange(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, ErrCodeOutOfRange, message)
}

// PaymentFailed sends 402 response when payment forwarding failed
func PaymentFailed(c *gin.Context, message string) {
	Error(c, http.StatusPaymentRequired, ErrCodePaymentFailed, message)
}

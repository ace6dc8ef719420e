package responses

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Body is the envelope of every JSON response. Status is "success", "error"
// for client mistakes or "fail" for server faults.
type Body struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Code    int               `json:"code,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Page is Body plus pagination details, for list endpoints.
type Page struct {
	Body
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

// Success writes data as the payload. A string "message" key in a gin.H is
// lifted to the envelope and the remaining keys become the payload.
func Success(c *gin.Context, statusCode int, data interface{}) {
	body := Body{Status: "success"}
	h, ok := data.(gin.H)
	msg, isStr := h["message"].(string)
	if !ok || !isStr {
		body.Data = data
		c.JSON(statusCode, body)
		return
	}

	body.Message = msg
	rest := make(gin.H, len(h))
	for k, v := range h {
		if k != "message" {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		body.Data = rest
	}
	c.JSON(statusCode, body)
}

// Error aborts the request with an error envelope.
func Error(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorBody(statusCode, message))
}

func errorBody(statusCode int, message string) Body {
	status := "error"
	if statusCode >= http.StatusInternalServerError {
		status = "fail"
	}
	return Body{Status: status, Message: message, Code: statusCode}
}

// ValidationError aborts with 400. Binding failures from validator are listed
// per field; anything else (malformed JSON) is reported as one message.
func ValidationError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		Error(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	body := errorBody(http.StatusBadRequest, "Validation failed. Please check your input.")
	body.Errors = make(map[string]string, len(ve))
	for _, fe := range ve {
		body.Errors[strings.ToLower(fe.Field())] = describe(fe)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("The %s field must be at least %s.", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("The %s field must not exceed %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "nefield":
		return fmt.Sprintf("The %s field must differ from %s.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", fe.Field())
	}
	return fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", fe.Field(), fe.Tag())
}

// Paginated writes one page of items.
func Paginated(c *gin.Context, statusCode int, items interface{}, page, pageSize int, totalItems int64) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	p := Pagination{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && page <= totalPages,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PreviousPage = &prev
	}
	c.JSON(statusCode, Page{Body: Body{Status: "success", Data: items}, Pagination: p})
}

// PageParams reads ?page= and ?limit= with defaults and clamping.
func PageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func NotFound(c *gin.Context, resourceName string) {
	Error(c, http.StatusNotFound, resourceName+" not found")
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

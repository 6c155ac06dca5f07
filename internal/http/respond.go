package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/middleware"
)

// Validator is implemented by request DTOs with rules beyond binding tags.
type Validator interface {
	Validate() error
}

// BuildRequest decodes the JSON body into a new T.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	req := new(T)
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, err
	}
	return req, nil
}

// BuildRequestAndValidate is BuildRequest followed by Validate when T has one.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req, err := BuildRequest[T](c)
	if err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// ResponseBuilder writes the success and error envelopes for one request.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder returns a builder bound to c.
func NewResponseBuilder(c *gin.Context) ResponseBuilder {
	return ResponseBuilder{c: c}
}

// Success wraps data in a SuccessResponse.
func (b ResponseBuilder) Success(status int, data interface{}) {
	b.c.JSON(status, dto.NewSuccess(data, middleware.GetRequestID(b.c)))
}

// SuccessOK is Success with 200.
func (b ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated is Success with 201.
func (b ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Error aborts with the default code for status and a translated message.
func (b ResponseBuilder) Error(status int, messageKey string, err error) {
	b.ErrorWithCode(status, dto.ErrCodeFromStatus(status), messageKey, err)
}

// ErrorWithCode aborts with an explicit code, for conflicts that are more
// specific than the status, such as insufficient_stock.
func (b ResponseBuilder) ErrorWithCode(status int, code, messageKey string, err error) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	b.abort(status, dto.NewError(code, message), err)
}

// ErrorWithMessage aborts with an untranslated message. Field validation
// errors also populate the details map.
func (b ResponseBuilder) ErrorWithMessage(status int, message string, err error) {
	resp := dto.NewError(dto.ErrCodeFromStatus(status), message)

	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		resp = resp.WithDetail(validationErr.Field, validationErr.Message)
	}
	b.abort(status, resp, err)
}

// abort records err for the error handler and writes resp.
func (b ResponseBuilder) abort(status int, resp dto.ErrorResponse, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(status, resp.WithRequestID(middleware.GetRequestID(b.c)))
}

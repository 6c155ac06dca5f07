package i18n

// Request and transport errors.
const (
	ErrKeyInvalidRequest      = "error.invalid_request"
	ErrKeyInvalidRequestBody  = "error.invalid_request_body"
	ErrKeyInternalError       = "error.internal_error"
	ErrKeyNotFound            = "error.not_found"
	ErrKeyConflict            = "error.conflict"
	ErrKeyTimeout             = "error.timeout"
	ErrKeyRateLimitExceeded   = "error.rate_limit_exceeded"
	ErrKeyServiceUnavailable  = "error.service_unavailable"
	ErrKeyIdempotencyMismatch = "error.idempotency_mismatch"
)

// Authentication and tenant scoping.
const (
	ErrKeyUnauthorized    = "error.unauthorized"
	ErrKeyAPIKeyRequired  = "error.api_key_required"
	ErrKeyInvalidAPIKey   = "error.invalid_api_key"
	ErrKeyTokenRequired   = "error.token_required"
	ErrKeyInvalidToken    = "error.invalid_token"
	ErrKeyForbidden       = "error.forbidden"
	ErrKeyTenantRequired  = "error.tenant_required"
	ErrKeyTenantForbidden = "error.tenant_forbidden"
)

// Scaffold, stock and audit log outcomes.
const (
	ErrKeyInvalidDimensions  = "error.validation.dimensions"
	ErrKeyInvalidStockItem   = "error.validation.stock_item"
	ErrKeyInvalidQuantity    = "error.validation.quantity"
	ErrKeyInvalidLogWindow   = "error.validation.log_window"
	ErrKeyStockItemNotFound  = "error.stock_item_not_found"
	ErrKeyInsufficientStock  = "error.insufficient_stock"
	ErrKeyNegativeStock      = "error.negative_stock"
	ErrKeyStockUnavailable   = "error.stock_unavailable"
	SuccessKeyStockWithdrawn = "success.stock_withdrawn"
)

package errors

// Error code constants returned in the "error" field of failure responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // credential missing
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // token past its 12h window
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // malformed or badly signed token

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden        = "AUTHZ_FORBIDDEN"         // generic guard denial
	AuthzIdentityMismatch = "AUTHZ_IDENTITY_MISMATCH" // token email != requested email
	AuthzRoleMismatch     = "AUTHZ_ROLE_MISMATCH"     // caller role not allowed
	AuthzNotOwner         = "AUTHZ_NOT_OWNER"         // caller does not own the listing
	AuthzNotEligible      = "AUTHZ_NOT_ELIGIBLE"      // seller not fully approved

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID" // listing identifier is not a UUID
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Listings (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductStaleStatus = "PRODUCT_STALE_STATUS" // status changed under a concurrent reviewer
	ProductNotRejected = "PRODUCT_NOT_REJECTED" // resubmit on a listing with nothing to acknowledge

	// ==================== Seller onboarding (SELLER_) ====================
	SellerRequestNotPending = "SELLER_REQUEST_NOT_PENDING" // approve without a pending application
	SellerTargetNotCustomer = "SELLER_TARGET_NOT_CUSTOMER" // staff promotion of a non-customer

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)

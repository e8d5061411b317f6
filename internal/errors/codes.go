package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The admin dashboard maps these codes to its own messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad path id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad date/price format
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // e.g. end_at before start_at
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Menu (IMAGE_, CATEGORY_, TAG_, MENU_) ====================
	ImageNotFound         = "IMAGE_NOT_FOUND"
	CategoryNotFound      = "CATEGORY_NOT_FOUND"
	TagNotFound           = "TAG_NOT_FOUND"
	ReorderInvalidPayload = "REORDER_INVALID_PAYLOAD" // orders missing or not an array
	MenuUnknownBucket     = "MENU_UNKNOWN_BUCKET"
	MenuMoveOutOfRange    = "MENU_MOVE_OUT_OF_RANGE"

	// ==================== Upload (UPLOAD_) ====================
	UploadMissingFile     = "UPLOAD_MISSING_FILE"
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalStorageError  = "INTERNAL_STORAGE_ERROR"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)

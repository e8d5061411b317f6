package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the parser understands.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a parsed error ready to be sent to the client.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a repository/service error into a client-safe code and
// message. context names the operation, e.g. "create image".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pgErr)
		case pgForeignKeyViolation:
			return parseForeignKeyError(pgErr)
		case pgNotNullViolation:
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: requiredMessage(pgErr.ColumnName),
			}
		case pgCheckViolation:
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: "The submitted values are not valid",
			}
		}
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: defaultErrorMessage(context),
		}
	}

	// SQLite surfaces constraint failures as plain text.
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "unique constraint") || strings.Contains(errLower, "duplicate key") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This entry already exists"}
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced entry does not exist"}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(pgErr *pgconn.PgError) ErrorInfo {
	constraint := strings.ToLower(pgErr.ConstraintName)

	switch {
	case strings.Contains(constraint, "categories"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "A category with this name already exists"}
	case strings.Contains(constraint, "tags"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "A tag with this name already exists"}
	case strings.Contains(constraint, "image_tag"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This tag is already attached"}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This entry already exists",
	}
}

func parseForeignKeyError(pgErr *pgconn.PgError) ErrorInfo {
	detail := strings.ToLower(pgErr.Detail)
	constraint := strings.ToLower(pgErr.ConstraintName)

	if strings.Contains(detail, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This entry is still in use and cannot be deleted",
		}
	}
	if strings.Contains(constraint, "categor") || strings.Contains(detail, "category_id") {
		return ErrorInfo{Code: CategoryNotFound, Message: "The category does not exist"}
	}
	if strings.Contains(constraint, "tag") || strings.Contains(detail, "tag_id") {
		return ErrorInfo{Code: TagNotFound, Message: "The tag does not exist"}
	}
	if strings.Contains(detail, "image_id") {
		return ErrorInfo{Code: ImageNotFound, Message: "The menu item does not exist"}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced entry does not exist",
	}
}

func requiredMessage(column string) string {
	if column == "" {
		return "A required field is missing"
	}
	return column + " is required"
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "image"), strings.Contains(contextLower, "menu item"):
		return ImageNotFound
	case strings.Contains(contextLower, "category"):
		return CategoryNotFound
	case strings.Contains(contextLower, "tag"):
		return TagNotFound
	}
	return ResourceNotFound
}

func notFoundMessage(context string) string {
	switch notFoundCode(context) {
	case ImageNotFound:
		return "Menu item not found"
	case CategoryNotFound:
		return "Category not found"
	case TagNotFound:
		return "Tag not found"
	}
	return "The requested entry was not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "upload") {
		return "Failed to save. Please try again later"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "reorder") {
		return "Failed to update. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Failed to delete. Please try again later"
	}

	return "Something went wrong. Please try again later"
}

// ParseAndRespond parses err and writes it with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

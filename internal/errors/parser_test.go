package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil", nil, "list images", InternalServerError},
		{"image not found", gorm.ErrRecordNotFound, "get image", ImageNotFound},
		{"wrapped category not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), "find category", CategoryNotFound},
		{"generic not found", gorm.ErrRecordNotFound, "something", ResourceNotFound},
		{
			"unique tag name",
			&pgconn.PgError{Code: "23505", ConstraintName: "idx_tags_name"},
			"create tag",
			ResourceAlreadyExists,
		},
		{
			"missing category fk",
			fmt.Errorf("create: %w", &pgconn.PgError{Code: "23503", ConstraintName: "fk_images_category"}),
			"create image",
			CategoryNotFound,
		},
		{
			"not null",
			&pgconn.PgError{Code: "23502", ColumnName: "title"},
			"create image",
			ValidationRequired,
		},
		{
			"check",
			&pgconn.PgError{Code: "23514"},
			"update image",
			ValidationInvalidInput,
		},
		{
			"other postgres error",
			&pgconn.PgError{Code: "40001"},
			"update image",
			InternalDatabaseError,
		},
		{"sqlite unique", fmt.Errorf("UNIQUE constraint failed: tags.name"), "create tag", ResourceAlreadyExists},
		{"unknown", fmt.Errorf("boom"), "delete image", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_NotNullNamesColumn(t *testing.T) {
	info := ParseError(&pgconn.PgError{Code: "23502", ColumnName: "file_path"}, "create image")
	assert.Equal(t, "file_path is required", info.Message)
}

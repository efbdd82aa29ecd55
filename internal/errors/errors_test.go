package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "invalid_option",
			code:    errors.ErrInvalidOption,
			message: "--lang requires en or ja",
			wantStr: "[INVALID_OPTION] --lang requires en or ja",
		},
		{
			name:    "archive_structure",
			code:    errors.ErrArchiveStructure,
			message: ".takt/ not found",
			wantStr: "[ARCHIVE_STRUCTURE] .takt/ not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("connection reset")
	err := errors.Wrap(base, errors.ErrDownload, "downloading bundle")

	assert.Equal(t, "[DOWNLOAD] downloading bundle: connection reset", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Nil(t, errors.Wrap(nil, errors.ErrDownload, "ignored"))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("run: %w", errors.New(errors.ErrDestinationPopulated, "exists"))

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrDestinationPopulated, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrFileIO, "exists")))
	assert.True(t, errors.IsCode(err, errors.ErrDestinationPopulated))
	assert.Equal(t, errors.ErrUnknown, errors.GetCode(stderrors.New("plain")))
	assert.False(t, errors.IsCode(nil, errors.ErrUnknown))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "exists", errors.UserMessage(errors.New(errors.ErrDestinationPopulated, "exists")))
	assert.Equal(t, "fetch: boom", errors.UserMessage(errors.Wrap(stderrors.New("boom"), errors.ErrDownload, "fetch")))
	assert.Equal(t, "plain", errors.UserMessage(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.Newf(errors.ErrFileIO, "copying %s", "a.txt").WithDetail("path", "a.txt")
	assert.Equal(t, "copying a.txt", err.Message)
	assert.Equal(t, "a.txt", err.Details["path"])
}

func TestGetDetails(t *testing.T) {
	inner := errors.New(errors.ErrDownload, "download failed: HTTP 502").
		WithDetail("url", "https://example.test/a.tar.gz").
		WithDetail("attempt", 1)
	outer := errors.Wrap(fmt.Errorf("fetch: %w", inner), errors.ErrDownload, "fetching bundle").
		WithDetail("attempt", 2)

	assert.Equal(t, map[string]interface{}{
		"url":     "https://example.test/a.tar.gz",
		"attempt": 2,
	}, errors.GetDetails(outer))
	assert.Nil(t, errors.GetDetails(errors.New(errors.ErrFileIO, "no details")))
	assert.Nil(t, errors.GetDetails(stderrors.New("plain")))
}

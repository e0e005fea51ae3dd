package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{
			name:     "pdf within limit is accepted",
			filename: "report.pdf",
			size:     1 * 1024 * 1024,
			wantErr:  nil,
		},
		{
			name:     "docx is accepted",
			filename: "notes.docx",
			size:     1024,
			wantErr:  nil,
		},
		{
			name:     "xls is accepted",
			filename: "sheet.xls",
			size:     1024,
			wantErr:  nil,
		},
		{
			name:     "xlsx is accepted",
			filename: "sheet.xlsx",
			size:     1024,
			wantErr:  nil,
		},
		{
			name:     "extension check is case insensitive",
			filename: "REPORT.PDF",
			size:     1024,
			wantErr:  nil,
		},
		{
			name:     "executable is rejected",
			filename: "report.exe",
			size:     1024,
			wantErr:  ErrUnsupportedFileType,
		},
		{
			name:     "extensionless file is rejected",
			filename: "report",
			size:     1024,
			wantErr:  ErrUnsupportedFileType,
		},
		{
			name:     "oversized pdf is rejected",
			filename: "report.pdf",
			size:     60 * 1024 * 1024,
			wantErr:  ErrFileTooLarge,
		},
		{
			name:     "exactly at the ceiling is accepted",
			filename: "report.pdf",
			size:     MaxUploadSize,
			wantErr:  nil,
		},
		{
			name:     "one byte over the ceiling is rejected",
			filename: "report.pdf",
			size:     MaxUploadSize + 1,
			wantErr:  ErrFileTooLarge,
		},
		{
			name:     "empty filename is rejected",
			filename: "",
			size:     1024,
			wantErr:  ErrEmptyFilename,
		},
		{
			name:     "whitespace filename is rejected",
			filename: "   ",
			size:     1024,
			wantErr:  ErrEmptyFilename,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMaxUploadSize(t *testing.T) {
	// 50 MiB exactly.
	assert.Equal(t, int64(52428800), int64(MaxUploadSize))
}

func TestSessionState_IsValid(t *testing.T) {
	valid := []SessionState{
		StateUnauthenticated, StateRestoring, StateNoActiveDocument,
		StateUploading, StateActivatingIndex, StateActiveReady,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "state %q should be valid", s)
	}

	assert.False(t, SessionState("").IsValid())
	assert.False(t, SessionState("sending").IsValid())
}

func TestRole_Wire(t *testing.T) {
	assert.Equal(t, "user", RoleUser.String())
	assert.Equal(t, "model", RoleAssistant.String())
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, Role("assistant").IsValid())
}

// backend/src/security/validation/file_validation_test.go
package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/alyal/vendalytics/backend/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.NoError(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.NoError(t, ValidateClientContentType("application/octet-stream"))

	assert.Error(t, ValidateClientContentType("application/pdf"))
	assert.Error(t, ValidateClientContentType("image/png"))
	assert.Error(t, ValidateClientContentType(""))
}

func TestValidateFileContentCSV(t *testing.T) {
	file := bytes.NewReader([]byte("data;sku;total\n2025-01-01;A;10,00\n"))
	_, err := ValidateFileContent(file)
	require.NoError(t, err)

	// The read pointer must be back at the start for the parser.
	pos, err := file.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}

func TestValidateFileContentXLSX(t *testing.T) {
	raw := append([]byte{0x50, 0x4B, 0x03, 0x04}, bytes.Repeat([]byte{0x00}, 64)...)
	detected, err := ValidateFileContent(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", detected)
}

func TestValidateFileContentLatin1CSV(t *testing.T) {
	// "São Paulo;10,00" in ISO-8859-1. Not valid UTF-8, still text.
	raw := []byte{'S', 0xE3, 'o', ' ', 'P', 'a', 'u', 'l', 'o', ';', '1', '0', ',', '0', '0'}
	_, err := ValidateFileContent(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestValidateFileContentRejectsBinary(t *testing.T) {
	_, err := ValidateFileContent(bytes.NewReader([]byte{0x7F, 'E', 'L', 'F', 0x00, 0x01, 0x02}))
	assert.Error(t, err)
}

func TestValidateFileContentEmpty(t *testing.T) {
	_, err := ValidateFileContent(bytes.NewReader(nil))
	assert.Error(t, err)

	_, err = ValidateFileContent(nil)
	assert.Error(t, err)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUploader records the headers it receives and reads each file fully,
// the way the real services open the multipart file themselves.
type fakeUploader struct {
	calls []string
	read  []string
	url   string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, fileHeader *multipart.FileHeader) (string, error) {
	u.calls = append(u.calls, fileHeader.Filename)
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	u.read = append(u.read, string(data))
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func setupFakeUploader(t *testing.T, u *fakeUploader) {
	t.Helper()
	InitUploadService(u)
	t.Cleanup(func() { uploadService = nil })
}

func multipartRequest(t *testing.T, fields map[string]string, fileName, fileContent string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("profile_image", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/personal-info", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUpdatePersonalInfoMultipartUploadsImage(t *testing.T) {
	uploader := &fakeUploader{url: "https://cdn.example.com/profile.png"}
	setupFakeUploader(t, uploader)

	// full_name is left empty so the handler stops after the upload, before
	// touching storage.
	req := multipartRequest(t, map[string]string{"title": "Engineer"}, "me.png", "png-bytes")
	rec := httptest.NewRecorder()
	UpdatePersonalInfo(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"me.png"}, uploader.calls)
	assert.Equal(t, []string{"png-bytes"}, uploader.read)
}

func TestUpdatePersonalInfoMultipartWithoutImage(t *testing.T) {
	uploader := &fakeUploader{}
	setupFakeUploader(t, uploader)

	req := multipartRequest(t, map[string]string{"title": "Engineer"}, "", "")
	rec := httptest.NewRecorder()
	UpdatePersonalInfo(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "full_name is required", resp.Message)
	assert.Empty(t, uploader.calls)
}

func TestUpdatePersonalInfoUploadFailure(t *testing.T) {
	uploader := &fakeUploader{err: assert.AnError}
	setupFakeUploader(t, uploader)

	req := multipartRequest(t, map[string]string{"full_name": "Ada"}, "me.png", "png-bytes")
	rec := httptest.NewRecorder()
	UpdatePersonalInfo(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to upload profile image", resp.Message)
}

func TestUpdatePersonalInfoInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/personal-info", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	UpdatePersonalInfo(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

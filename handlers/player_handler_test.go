package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/services"
)

func playerFormBody(t *testing.T, fileField, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"name":      "Juan",
		"lastName":  "Pérez",
		"curp":      "PEPJ000101HDFRRN01",
		"position":  "base",
		"numberIpn": "2026001234",
		"number":    "7",
	}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			t.Fatalf("WriteField %s: %v", field, err)
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte("file-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestParsePlayerFormRejectsBadAttachmentType(t *testing.T) {
	body, contentType := playerFormBody(t, string(models.AttachmentIDCard), "id.gif", "image/gif")

	r := httptest.NewRequest("POST", "/api/teams/1/players", body)
	r.Header.Set("Content-Type", contentType)

	h := NewPlayerHandler(nil)
	_, _, closeUploads, err := h.parsePlayerForm(r)
	defer closeUploads()

	if !errors.Is(err, services.ErrAttachmentInvalidType) {
		t.Fatalf("parse error = %v, want ErrAttachmentInvalidType", err)
	}
}

func TestParsePlayerFormAcceptsPDF(t *testing.T) {
	body, contentType := playerFormBody(t, string(models.AttachmentIDCard), "id.pdf", "application/pdf")

	r := httptest.NewRequest("POST", "/api/teams/1/players", body)
	r.Header.Set("Content-Type", contentType)

	h := NewPlayerHandler(nil)
	input, uploads, closeUploads, err := h.parsePlayerForm(r)
	defer closeUploads()

	if err != nil {
		t.Fatalf("parsePlayerForm: %v", err)
	}
	if input.Name != "Juan" || input.Number != 7 {
		t.Errorf("input = %+v, want Juan with number 7", input)
	}
	upload, ok := uploads[models.AttachmentIDCard]
	if !ok {
		t.Fatal("idCard upload missing from parsed form")
	}
	if upload.ContentType != "application/pdf" || upload.Filename != "id.pdf" {
		t.Errorf("upload = %+v", upload)
	}
}

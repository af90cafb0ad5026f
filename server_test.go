package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BekirBz/invoice-ai-mvp/models"
	"github.com/BekirBz/invoice-ai-mvp/pkg/chat"
	"github.com/BekirBz/invoice-ai-mvp/pkg/pipeline"
	"github.com/BekirBz/invoice-ai-mvp/pkg/store"
)

// stubExtractor returns canned page texts keyed by filename so the full HTTP
// flow can run without Tesseract.
type stubExtractor struct {
	pages map[string][]string
}

func (s *stubExtractor) ExtractTexts(_ context.Context, _ []byte, filename string) ([]string, error) {
	return s.pages[filename], nil
}

func performRequest(r http.Handler, method, path string, body io.Reader, token, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func setupTestServer(pages map[string][]string) (*gin.Engine, store.Store) {
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	st := store.NewMemory()
	pipe := pipeline.New(&stubExtractor{pages: pages}, st)
	engine := chat.New(st, nil)
	r := gin.New()
	setupRoutes(r, newServer(st, pipe, engine))
	return r, st
}

func TestUploadListGetFlow(t *testing.T) {
	r, _ := setupTestServer(map[string][]string{
		"invoice.png": {"Acme Ltd\nInvoice Date: 01.08.2025\nTotal: EUR 1.234,56"},
	})

	body, ct := multipartUpload(t, map[string]string{"userId": "u1"}, "invoice.png", []byte("fake-image"))
	resp := performRequest(r, http.MethodPost, "/upload_invoice", body, "", ct)
	if resp.Code != http.StatusOK {
		t.Fatalf("upload status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.ID == "" || created.UserID != "u1" {
		t.Fatalf("unexpected invoice: %+v", created)
	}
	if created.Vendor == nil || *created.Vendor != "Acme Ltd" {
		t.Errorf("vendor = %v", created.Vendor)
	}
	if created.Amount == nil || *created.Amount != 1234.56 {
		t.Errorf("amount = %v", created.Amount)
	}

	resp = performRequest(r, http.MethodGet, "/invoices?userId=u1", nil, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list status=%d", resp.Code)
	}
	var listed []models.Invoice
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("list = %+v", listed)
	}

	resp = performRequest(r, http.MethodGet, "/invoices/"+created.ID, nil, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get status=%d", resp.Code)
	}

	resp = performRequest(r, http.MethodGet, "/invoices/nope", nil, "", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("missing invoice status=%d", resp.Code)
	}
}

func TestUploadRejectsEmptyOCR(t *testing.T) {
	r, st := setupTestServer(map[string][]string{
		"blank.png": {"   ", ""},
	})

	body, ct := multipartUpload(t, nil, "blank.png", []byte("fake-image"))
	resp := performRequest(r, http.MethodPost, "/upload_invoice", body, "", ct)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	invs, err := st.ListInvoices(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(invs) != 0 {
		t.Fatalf("rejected upload was stored: %+v", invs)
	}
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := setupTestServer(nil)
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	_ = w.WriteField("userId", "u1")
	_ = w.Close()
	resp := performRequest(r, http.MethodPost, "/upload_invoice", buf, "", w.FormDataContentType())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestAuthTokenIdentityWinsOverForm(t *testing.T) {
	r, _ := setupTestServer(map[string][]string{
		"invoice.png": {"Total: 10.00"},
	})

	tokBody, _ := json.Marshal(map[string]string{"userId": "token-user"})
	resp := performRequest(r, http.MethodPost, "/auth/token", bytes.NewBuffer(tokBody), "", "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("token status=%d body=%s", resp.Code, resp.Body.String())
	}
	var tokResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &tokResp); err != nil || tokResp.Token == "" {
		t.Fatalf("decode token response: %v body=%s", err, resp.Body.String())
	}

	body, ct := multipartUpload(t, map[string]string{"userId": "form-user"}, "invoice.png", []byte("x"))
	resp = performRequest(r, http.MethodPost, "/upload_invoice", body, tokResp.Token, ct)
	if resp.Code != http.StatusOK {
		t.Fatalf("upload status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created models.Invoice
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.UserID != "token-user" {
		t.Fatalf("userId = %q, want token identity to win", created.UserID)
	}
}

func TestUserSyncAndLoginEvents(t *testing.T) {
	r, _ := setupTestServer(nil)

	syncBody, _ := json.Marshal(map[string]string{"userId": "u1", "email": "u1@example.com", "displayName": "User One"})
	resp := performRequest(r, http.MethodPost, "/users/sync", bytes.NewBuffer(syncBody), "", "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("sync status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodPost, "/users/sync", bytes.NewBufferString(`{}`), "", "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("sync without userId status=%d", resp.Code)
	}

	evBody, _ := json.Marshal(map[string]string{"userId": "u1", "userAgent": "go-test"})
	resp = performRequest(r, http.MethodPost, "/users/logins", bytes.NewBuffer(evBody), "", "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("login event status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestChatEndpoint(t *testing.T) {
	r, st := setupTestServer(nil)
	fraud := 0.9
	_, err := st.SaveInvoice(context.Background(), &models.Invoice{
		ID: "r1", UserID: "u1", Filename: "sketchy.pdf",
		FraudScore: &fraud, CreatedAt: "2025-03-02T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	chatBody, _ := json.Marshal(map[string]string{"userId": "u1", "question": "how does this work"})
	resp := performRequest(r, http.MethodPost, "/chat", bytes.NewBuffer(chatBody), "", "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("chat status=%d body=%s", resp.Code, resp.Body.String())
	}
	var ans chat.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &ans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ans.Answer == "" {
		t.Fatal("empty answer")
	}

	resp = performRequest(r, http.MethodPost, "/chat", bytes.NewBufferString(`{"userId":"u1"}`), "", "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("chat without question status=%d", resp.Code)
	}
}

func TestExportXLSX(t *testing.T) {
	r, st := setupTestServer(nil)
	amount := 100.0
	_, err := st.SaveInvoice(context.Background(), &models.Invoice{
		ID: "a1", UserID: "u1", Filename: "a.pdf", Amount: &amount,
		CreatedAt: "2025-08-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := performRequest(r, http.MethodGet, "/invoices/export.xlsx?userId=u1", nil, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("export status=%d body=%s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", ct)
	}
	if resp.Body.Len() == 0 {
		t.Fatal("empty workbook body")
	}
}

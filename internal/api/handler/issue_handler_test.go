package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
	"github.com/civicgrid/civic-report-api/internal/core/ports"
)

type stubIssueService struct {
	ops       *[]string
	createIn  ports.CreateIssueInput
	setIn     ports.SetStatusInput
	baseURL   string
	listMine  []*domain.Issue
	createErr error
}

func (s *stubIssueService) Create(_ context.Context, input ports.CreateIssueInput) (*domain.Issue, error) {
	if s.ops != nil {
		*s.ops = append(*s.ops, "create")
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.createIn = input
	return &domain.Issue{
		ID: "issue-1", OwnerUID: input.OwnerUID, Name: input.Name,
		Location: input.Location, Description: input.Description,
		Status: domain.StatusPending, Image: input.ImageRef,
	}, nil
}

func (s *stubIssueService) ListAll(_ context.Context, _ domain.Role, baseURL string) ([]*domain.Issue, error) {
	s.baseURL = baseURL
	return s.listMine, nil
}

func (s *stubIssueService) ListByOwner(_ context.Context, _, baseURL string) ([]*domain.Issue, error) {
	s.baseURL = baseURL
	return s.listMine, nil
}

func (s *stubIssueService) SetStatus(_ context.Context, input ports.SetStatusInput, baseURL string) (*domain.Issue, error) {
	s.setIn = input
	s.baseURL = baseURL
	return &domain.Issue{ID: input.IssueID, Status: input.Status}, nil
}

type stubFileStore struct {
	ops   *[]string
	name  string
	bytes int64
	err   error
}

func (f *stubFileStore) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	if f.ops != nil {
		*f.ops = append(*f.ops, "save")
	}
	if f.err != nil {
		return "", f.err
	}
	f.name = originalName
	f.bytes, _ = io.Copy(io.Discard, r)
	return "/uploads/123_" + originalName, nil
}

func multipartIssue(t *testing.T, fields map[string]string, imageName string, imageBody []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(imageBody); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestIssueHandler_Create_WithImage(t *testing.T) {
	var ops []string
	svc := &stubIssueService{ops: &ops}
	files := &stubFileStore{ops: &ops}
	h := NewIssueHandler(svc, files)

	body, contentType := multipartIssue(t, map[string]string{
		"issue_name":  "Pothole",
		"location":    "Main St",
		"description": "deep one",
	}, "photo.jpg", []byte("jpegbytes"))

	c, rec := newTestContext(t, http.MethodPost, "/issues", body, contentType)
	asClaims(c, "u1", domain.RoleUser)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	// The upload is durable before the record referencing it exists.
	if len(ops) != 2 || ops[0] != "save" || ops[1] != "create" {
		t.Fatalf("op order = %v, want [save create]", ops)
	}
	if files.name != "photo.jpg" || files.bytes == 0 {
		t.Fatalf("file store got name=%q bytes=%d", files.name, files.bytes)
	}
	if svc.createIn.ImageRef != "/uploads/123_photo.jpg" {
		t.Fatalf("image ref = %q", svc.createIn.ImageRef)
	}
	if svc.createIn.OwnerUID != "u1" {
		t.Fatalf("owner uid = %q, want claims uid", svc.createIn.OwnerUID)
	}

	var got domain.Issue
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Image != "http://example.com/uploads/123_photo.jpg" {
		t.Fatalf("response image = %q, want absolutized url", got.Image)
	}
}

func TestIssueHandler_Create_WithoutImage(t *testing.T) {
	svc := &stubIssueService{}
	h := NewIssueHandler(svc, &stubFileStore{})

	body, contentType := multipartIssue(t, map[string]string{
		"issue_name":  "Pothole",
		"location":    "Main St",
		"description": "deep one",
	}, "", nil)

	c, rec := newTestContext(t, http.MethodPost, "/issues", body, contentType)
	asClaims(c, "u1", domain.RoleUser)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if svc.createIn.ImageRef != "" {
		t.Fatalf("image ref = %q, want empty", svc.createIn.ImageRef)
	}
}

func TestIssueHandler_Create_NoClaims(t *testing.T) {
	h := NewIssueHandler(&stubIssueService{}, &stubFileStore{})

	body, contentType := multipartIssue(t, map[string]string{"issue_name": "x"}, "", nil)
	c, _ := newTestContext(t, http.MethodPost, "/issues", body, contentType)

	if code := httpStatus(t, h.Create(c)); code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

func TestIssueHandler_ListMine_Envelope(t *testing.T) {
	svc := &stubIssueService{listMine: []*domain.Issue{{ID: "issue-1", Name: "Pothole"}}}
	h := NewIssueHandler(svc, &stubFileStore{})

	c, rec := newTestContext(t, http.MethodGet, "/my-issues", nil, "")
	asClaims(c, "u1", domain.RoleUser)

	if err := h.ListMine(c); err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if svc.baseURL != "http://example.com" {
		t.Fatalf("baseURL = %q", svc.baseURL)
	}

	var got map[string][]*domain.Issue
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if issues, ok := got["issues"]; !ok || len(issues) != 1 {
		t.Fatalf("body = %s, want issues envelope", rec.Body.String())
	}
}

func TestIssueHandler_SetStatus(t *testing.T) {
	svc := &stubIssueService{}
	h := NewIssueHandler(svc, &stubFileStore{})

	body := bytes.NewBufferString(`{"status":"solved"}`)
	c, rec := newTestContext(t, http.MethodPatch, "/issues/issue-1/status", body, "application/json")
	c.SetParamNames("id")
	c.SetParamValues("issue-1")
	asClaims(c, "admin-1", domain.RoleAdmin)

	if err := h.SetStatus(c); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := ports.SetStatusInput{IssueID: "issue-1", Status: domain.StatusSolved, Role: domain.RoleAdmin, CallerUID: "admin-1"}
	if svc.setIn != want {
		t.Fatalf("input = %+v, want %+v", svc.setIn, want)
	}
}

func TestIssueHandler_SetStatus_BadPayload(t *testing.T) {
	h := NewIssueHandler(&stubIssueService{}, &stubFileStore{})

	for _, body := range []string{`{not json`, `{}`, `{"status":""}`} {
		c, _ := newTestContext(t, http.MethodPatch, "/issues/issue-1/status", bytes.NewBufferString(body), "application/json")
		c.SetParamNames("id")
		c.SetParamValues("issue-1")
		asClaims(c, "admin-1", domain.RoleAdmin)

		if code := httpStatus(t, h.SetStatus(c)); code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, code)
		}
	}
}

package blob

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSupabaseStoreUpload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewSupabase(srv.URL, "service-key", "docs")
	if err != nil {
		t.Fatalf("NewSupabase: %v", err)
	}

	url, err := store.Upload(context.Background(), "u-1-a.pdf", "application/pdf", []byte("pdfbytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if gotPath != "/storage/v1/object/docs/u-1-a.pdf" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotType != "application/pdf" {
		t.Errorf("content type = %q", gotType)
	}
	if string(gotBody) != "pdfbytes" {
		t.Errorf("body = %q", gotBody)
	}
	want := srv.URL + "/storage/v1/object/public/docs/u-1-a.pdf"
	if url != want {
		t.Errorf("public url = %q, want %q", url, want)
	}
}

func TestSupabaseStoreUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket missing", http.StatusBadRequest)
	}))
	defer srv.Close()

	store, err := NewSupabase(srv.URL, "k", "docs")
	if err != nil {
		t.Fatalf("NewSupabase: %v", err)
	}
	if _, err := store.Upload(context.Background(), "a.pdf", "application/pdf", []byte("x")); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestSupabaseStoreDeleteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store, err := NewSupabase(srv.URL, "k", "docs")
	if err != nil {
		t.Fatalf("NewSupabase: %v", err)
	}
	if err := store.Delete(context.Background(), "gone.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPUploaderPostsMultipart(t *testing.T) {
	var gotField, gotFilename string
	var gotPayload []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm failed: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile failed: %v", err)
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		gotField = "file"
		gotFilename = header.Filename
		gotPayload, _ = io.ReadAll(file)

		w.Write([]byte(`{"detected_objects":[]}`))
	}))
	defer server.Close()

	uploader := NewHTTPUploader(server.URL, 5*time.Second)
	body, err := uploader.Post(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0xD9}, "frame_000001.jpg")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if gotField != "file" {
		t.Errorf("Expected field name file, got %q", gotField)
	}
	if gotFilename != "frame_000001.jpg" {
		t.Errorf("Expected filename frame_000001.jpg, got %q", gotFilename)
	}
	if len(gotPayload) != 4 {
		t.Errorf("Expected 4 payload bytes, got %d", len(gotPayload))
	}
	if string(body) != `{"detected_objects":[]}` {
		t.Errorf("Unexpected response body: %s", body)
	}
}

func TestHTTPUploaderNon200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	uploader := NewHTTPUploader(server.URL, 5*time.Second)
	_, err := uploader.Post(context.Background(), []byte("frame"), "frame_000001.jpg")
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Expected code 500, got %d", statusErr.Code)
	}
}

func TestHTTPUploaderTransportError(t *testing.T) {
	// A server that is immediately closed produces a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	uploader := NewHTTPUploader(server.URL, time.Second)
	_, err := uploader.Post(context.Background(), []byte("frame"), "frame_000001.jpg")
	if err == nil {
		t.Fatal("Expected transport error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("Expected transport error, got status error: %v", err)
	}
}

func TestHTTPUploaderTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	uploader := NewHTTPUploader(server.URL, 50*time.Millisecond)
	_, err := uploader.Post(context.Background(), []byte("frame"), "frame_000001.jpg")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
}

package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{1500, 1000, 1000, 1000, 1000, 666},
		{1000, 1500, 1000, 1000, 666, 1000},
		{800, 600, 1000, 1000, 800, 600},
		{800, 600, 0, 0, 800, 600},
		{4000, 1, 100, 100, 100, 1},
	}

	for _, tt := range tests {
		gotW, gotH := fit(tt.w, tt.h, tt.maxW, tt.maxH)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("fit(%d, %d, %d, %d) = %d, %d; want %d, %d",
				tt.w, tt.h, tt.maxW, tt.maxH, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestResizeImage(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ResizeImage(context.Background(), pngOf(t, 300, 200), 150, 150)
	if err != nil {
		t.Fatalf("ResizeImage error: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 150 || b.Dy() != 100 {
		t.Errorf("resized to %dx%d, want 150x100", b.Dx(), b.Dy())
	}
}

func TestConvertToJPEG(t *testing.T) {
	svc := NewImageService()

	out, err := svc.ConvertToJPEG(context.Background(), pngOf(t, 10, 10))
	if err != nil {
		t.Fatalf("ConvertToJPEG error: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not JPEG: %v", err)
	}

	if _, err := svc.ConvertToJPEG(context.Background(), []byte("nope")); err == nil {
		t.Error("expected error for invalid image")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "list.yaml")

	if Exists(path) {
		t.Fatal("file should not exist yet")
	}
	if err := WriteFileAtomic(path, []byte("one")); err != nil {
		t.Fatalf("WriteFileAtomic error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("two")); err != nil {
		t.Fatalf("WriteFileAtomic error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "two" {
		t.Errorf("content = %q, %v; want two", data, err)
	}
	if !Exists(path) {
		t.Error("Exists should report the file")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

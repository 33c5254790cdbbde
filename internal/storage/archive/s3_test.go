// internal/storage/archive/s3_test.go
package archive

import (
	"strings"
	"testing"
)

func TestS3Storage_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestS3Storage_Key(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "runs/demo/summary.json", "runs/demo/summary.json"},
		{"ballast", "runs/demo/summary.json", "ballast/runs/demo/summary.json"},
		{"ballast/", "runs/demo/summary.json", "ballast/runs/demo/summary.json"},
	}

	for _, tt := range tests {
		s := &S3Storage{prefix: strings.TrimSuffix(tt.prefix, "/")}
		got := s.key(tt.path)
		if got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestNewS3_PathStyleForCustomEndpoint(t *testing.T) {
	s, err := NewS3(S3Config{
		Bucket:   "runs",
		Endpoint: "http://localhost:9000",
		Region:   "us-east-1",
	})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	if s.bucket != "runs" {
		t.Errorf("bucket = %q", s.bucket)
	}
}

package storage

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"localhost:9000", "localhost:9000"},
		{"http://localhost:9000", "localhost:9000"},
		{"https://acc.r2.cloudflarestorage.com/bucket/", "acc.r2.cloudflarestorage.com"},
		{"s3.amazonaws.com/", "s3.amazonaws.com"},
	}

	for _, tt := range tests {
		if got := normalizeEndpoint(tt.in); got != tt.want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectStorageType(t *testing.T) {
	tests := []struct {
		endpoint string
		want     StorageType
	}{
		{"", StorageTypeS3},
		{"https://acc.R2.cloudflarestorage.com", StorageTypeR2},
		{"s3.eu-west-1.amazonaws.com", StorageTypeS3},
		{"localhost:9000", StorageTypeS3Compatible},
	}

	for _, tt := range tests {
		if got := detectStorageType(tt.endpoint); got != tt.want {
			t.Errorf("detectStorageType(%q) = %q, want %q", tt.endpoint, got, tt.want)
		}
	}
}

func TestNewExportStore_DisabledWithoutBucket(t *testing.T) {
	store, err := NewExportStore(&S3Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store != nil {
		t.Errorf("expected nil store, got %T", store)
	}
}

func TestNewExportStore_DetectsType(t *testing.T) {
	tests := []struct {
		name       string
		cfg        S3Config
		wantType   StorageType
		wantRegion string
	}{
		{"r2 endpoint", S3Config{Endpoint: "https://acct.r2.cloudflarestorage.com", Bucket: "exports", AccessKey: "k", SecretKey: "s"}, StorageTypeR2, "auto"},
		{"minio endpoint", S3Config{Endpoint: "localhost:9000", Bucket: "exports", AccessKey: "k", SecretKey: "s"}, StorageTypeS3Compatible, "us-east-1"},
		{"explicit type kept", S3Config{Type: StorageTypeS3, Endpoint: "localhost:9000", Bucket: "exports", AccessKey: "k", SecretKey: "s"}, StorageTypeS3, "us-east-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			store, err := NewExportStore(&cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s3Store, ok := store.(*S3Storage)
			if !ok {
				t.Fatalf("expected *S3Storage, got %T", store)
			}
			if s3Store.storeType != tt.wantType {
				t.Errorf("expected type %q, got %q", tt.wantType, s3Store.storeType)
			}
			if got := s3Store.client.Options().Region; got != tt.wantRegion {
				t.Errorf("expected region %q, got %q", tt.wantRegion, got)
			}
		})
	}
}

func TestURL(t *testing.T) {
	public, err := NewS3Storage(&S3Config{
		Endpoint:  "localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "exports",
		Prefix:    "/exhibitions/",
		PublicURL: "https://cdn.example.com/",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := public.URL(context.Background(), "u1/e1.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://cdn.example.com/exhibitions/u1/e1.json" {
		t.Errorf("unexpected public URL %q", got)
	}

	signed, err := NewS3Storage(&S3Config{
		Endpoint:  "localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "exports",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = signed.URL(context.Background(), "u1/e1.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "http://localhost:9000/exports/u1/e1.json?") || !strings.Contains(got, "X-Amz-Signature=") {
		t.Errorf("unexpected presigned URL %q", got)
	}
}

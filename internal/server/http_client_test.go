package server

import (
	"testing"
	"time"

	"github.com/any-hub/folio/internal/config"
)

func TestNewUpstreamClientUsesConfigTimeout(t *testing.T) {
	cfg := &config.Config{
		GitHub: config.GitHubConfig{
			UpstreamTimeout: config.Duration(45 * time.Second),
		},
	}

	client := NewUpstreamClient(cfg)
	if client.Timeout != 45*time.Second {
		t.Fatalf("expected timeout 45s, got %s", client.Timeout)
	}
}

func TestNewUpstreamClientDefaultsTimeout(t *testing.T) {
	client := NewUpstreamClient(nil)
	if client.Timeout != defaultUpstreamTimeout {
		t.Fatalf("expected default timeout, got %s", client.Timeout)
	}
	if client.Transport == nil {
		t.Fatalf("expected dedicated transport")
	}
}

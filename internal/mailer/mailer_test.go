package mailer

import (
	"testing"
	"time"
)

func TestNewRequiresHostAndFrom(t *testing.T) {
	if _, err := New(Config{From: "noreply@paperly.app"}); err == nil {
		t.Fatal("expected error without host")
	}
	if _, err := New(Config{Host: "smtp.example.com"}); err == nil {
		t.Fatal("expected error without from address")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	m, err := New(Config{
		Host:    "smtp.example.com",
		From:    "noreply@paperly.app",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.client == nil || m.from != "noreply@paperly.app" {
		t.Fatalf("unexpected mailer: %+v", m)
	}
}

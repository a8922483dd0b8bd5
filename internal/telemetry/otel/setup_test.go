package otel

import (
	"context"
	"testing"
)

func TestNewProviders_EmptyEndpointIsNoop(t *testing.T) {
	p, err := NewProviders(context.Background(), "", "aido-backend", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
		t.Error("no-op providers should still be non-nil")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestDialTarget(t *testing.T) {
	cases := []struct {
		name         string
		endpoint     string
		wantTarget   string
		wantInsecure bool
		wantErr      bool
	}{
		{"bare host:port", "localhost:4317", "localhost:4317", true, false},
		{"http url", "http://collector:4317", "collector:4317", true, false},
		{"https url", "https://collector:4317", "collector:4317", false, false},
		{"https with override", "https://collector:4317", "collector:4317", true, false},
		{"url path dropped", "http://collector:4317/v1/traces", "collector:4317", true, false},
		{"missing host", "http://", "", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			override := tc.name == "https with override"
			target, insecure, err := dialTarget(tc.endpoint, override)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("dialTarget: %v", err)
			}
			if target != tc.wantTarget {
				t.Errorf("target = %q, want %q", target, tc.wantTarget)
			}
			if insecure != tc.wantInsecure {
				t.Errorf("insecure = %t, want %t", insecure, tc.wantInsecure)
			}
		})
	}
}

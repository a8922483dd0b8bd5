package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_SendCode_Accepted(t *testing.T) {
	var got sendRequest
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(sendResponse{Code: "OK", BizID: "123"})
	}))
	defer srv.Close()

	c := NewClient("key-1", srv.URL, "Aido", "SMS_001")
	if err := c.SendCode(context.Background(), "13800000000", "482913"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}

	if gotAuth != "key-1" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "key-1")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if got.PhoneNumbers != "13800000000" {
		t.Errorf("phone_numbers = %q, want 13800000000", got.PhoneNumbers)
	}
	if got.SignName != "Aido" || got.TemplateCode != "SMS_001" {
		t.Errorf("template identity = (%q, %q), want (Aido, SMS_001)", got.SignName, got.TemplateCode)
	}
	if got.TemplateParam["code"] != "482913" {
		t.Errorf("template_param.code = %q, want 482913", got.TemplateParam["code"])
	}
	if got.OutID == "" {
		t.Error("out_id should be set")
	}
}

func TestClient_SendCode_ProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sendResponse{Code: "isv.BUSINESS_LIMIT_CONTROL", Message: "rate limited"})
	}))
	defer srv.Close()

	c := NewClient("key-1", srv.URL, "Aido", "SMS_001")
	err := c.SendCode(context.Background(), "13800000000", "482913")
	if err == nil {
		t.Fatal("SendCode should fail when the provider Code is not OK")
	}
	if !strings.Contains(err.Error(), "isv.BUSINESS_LIMIT_CONTROL") {
		t.Errorf("error = %v, want it to carry the provider code", err)
	}
}

func TestClient_SendCode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("key-1", srv.URL, "Aido", "SMS_001")
	err := c.SendCode(context.Background(), "13800000000", "482913")
	if err == nil {
		t.Fatal("SendCode should fail on a non-200 status")
	}
	if !strings.Contains(err.Error(), "status=502") {
		t.Errorf("error = %v, want it to carry the status code", err)
	}
}

func TestClient_SendCode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("key-1", srv.URL, "Aido", "SMS_001")
	if err := c.SendCode(context.Background(), "13800000000", "482913"); err == nil {
		t.Fatal("SendCode should fail on a malformed provider response")
	}
}

func TestClient_SendCode_MissingConfig(t *testing.T) {
	c := NewClient("", "http://sms.invalid", "Aido", "SMS_001")
	if err := c.SendCode(context.Background(), "13800000000", "482913"); err == nil {
		t.Error("SendCode should fail without an API key")
	}

	c = NewClient("key-1", "", "Aido", "SMS_001")
	if err := c.SendCode(context.Background(), "13800000000", "482913"); err == nil {
		t.Error("SendCode should fail without a base URL")
	}
}

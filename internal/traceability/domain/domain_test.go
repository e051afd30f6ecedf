package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseCheckpointStatus(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"Loaded", true},
		{"QrScanned", true},
		{"ArrivedHub", true},
		{"DepartedHub", true},
		{"OutForDelivery", true},
		{"DeliveryAttempt", true},
		{"Delivered", true},
		{"Exception", true},
		{"NotARealStatus", false},
		{"loaded", false}, // parsing is case-sensitive
		{"", false},
	}

	for _, tt := range tests {
		status, ok := ParseCheckpointStatus(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParseCheckpointStatus(%q): got ok=%v, want %v", tt.raw, ok, tt.ok)
		}
		if ok && string(status) != tt.raw {
			t.Errorf("ParseCheckpointStatus(%q): got %q", tt.raw, status)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusDelivered.Label(); got != "Entregado" {
		t.Errorf("Delivered label: got %q, want Entregado", got)
	}
	if got := StatusQrScanned.Label(); got != "QR escaneado" {
		t.Errorf("QrScanned label: got %q, want QR escaneado", got)
	}
	if got := CheckpointStatus("CustomsHold").Label(); got != "CustomsHold" {
		t.Errorf("unmapped label fallback: got %q, want CustomsHold", got)
	}
}

func TestCreateCheckpointInputValidate(t *testing.T) {
	lat := 19.432608
	long := -99.133209
	badLat := 91.0
	badLong := -181.0

	tests := []struct {
		name    string
		input   CreateCheckpointInput
		wantErr string
	}{
		{
			name:  "valid minimal",
			input: CreateCheckpointInput{ShipmentID: uuid.New(), StatusCode: "Loaded"},
		},
		{
			name:  "valid with gps",
			input: CreateCheckpointInput{ShipmentID: uuid.New(), StatusCode: "Delivered", Latitude: &lat, Longitude: &long},
		},
		{
			name:    "missing shipment id",
			input:   CreateCheckpointInput{StatusCode: "Loaded"},
			wantErr: "shipment_id is required",
		},
		{
			name:    "missing status",
			input:   CreateCheckpointInput{ShipmentID: uuid.New()},
			wantErr: "status_code is required",
		},
		{
			name:    "unknown status",
			input:   CreateCheckpointInput{ShipmentID: uuid.New(), StatusCode: "NotARealStatus"},
			wantErr: "not a known status",
		},
		{
			name:    "latitude out of range",
			input:   CreateCheckpointInput{ShipmentID: uuid.New(), StatusCode: "Loaded", Latitude: &badLat},
			wantErr: "latitude must be between",
		},
		{
			name:    "longitude out of range",
			input:   CreateCheckpointInput{ShipmentID: uuid.New(), StatusCode: "Loaded", Longitude: &badLong},
			wantErr: "longitude must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate passed, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	badLat := 100.0
	input := CreateCheckpointInput{Latitude: &badLat}

	err := input.Validate()
	if err == nil {
		t.Fatal("Validate passed on input with multiple faults")
	}
	for _, want := range []string{"shipment_id is required", "status_code is required", "latitude must be between"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("aggregated error missing %q: %v", want, err)
		}
	}
}

func TestPagedRequestNormalized(t *testing.T) {
	tests := []struct {
		name     string
		in       PagedRequest
		wantPage int
		wantSize int
	}{
		{"defaults on zero", PagedRequest{}, DefaultPage, DefaultPageSize},
		{"negative page", PagedRequest{Page: -3, PageSize: 10}, DefaultPage, 10},
		{"size capped", PagedRequest{Page: 2, PageSize: 5000}, 2, MaxPageSize},
		{"valid passthrough", PagedRequest{Page: 4, PageSize: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			if got.Page != tt.wantPage || got.PageSize != tt.wantSize {
				t.Errorf("Normalized(): got page=%d size=%d, want page=%d size=%d", got.Page, got.PageSize, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestPagedRequestOffset(t *testing.T) {
	request := PagedRequest{Page: 3, PageSize: 20}
	if got := request.Offset(); got != 40 {
		t.Errorf("Offset(): got %d, want 40", got)
	}
}

package validation

import "testing"

func TestIsValidSessionRef(t *testing.T) {
	tests := []struct {
		name  string
		ref   string
		valid bool
	}{
		{
			name:  "typical stripe session",
			ref:   "cs_test_a1B2c3D4e5F6",
			valid: true,
		},
		{
			name:  "empty string",
			ref:   "",
			valid: false,
		},
		{
			name:  "contains space",
			ref:   "cs_test a1B2",
			valid: false,
		},
		{
			name:  "contains newline",
			ref:   "cs_test\n",
			valid: false,
		},
		{
			name:  "control character",
			ref:   "cs_test\x00",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidSessionRef(tt.ref)
			if got != tt.valid {
				t.Fatalf("IsValidSessionRef(%q) = %v, want %v", tt.ref, got, tt.valid)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{
			name:  "lowercase hex",
			id:    "64fa3c2b1d9e8a7b6c5d4e3f",
			valid: true,
		},
		{
			name:  "mixed case hex",
			id:    "64FA3c2b1D9e8a7b6c5d4E3F",
			valid: true,
		},
		{
			name:  "too short",
			id:    "64fa3c2b1d9e8a7b6c5d4e3",
			valid: false,
		},
		{
			name:  "too long",
			id:    "64fa3c2b1d9e8a7b6c5d4e3f0",
			valid: false,
		},
		{
			name:  "non-hex character",
			id:    "64fa3c2b1d9e8a7b6c5d4g3f",
			valid: false,
		},
		{
			name:  "empty string",
			id:    "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidObjectID(tt.id)
			if got != tt.valid {
				t.Fatalf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}

func TestIsValidQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		valid    bool
	}{
		{name: "positive", quantity: 3, valid: true},
		{name: "zero removes item", quantity: 0, valid: true},
		{name: "negative", quantity: -1, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidQuantity(tt.quantity)
			if got != tt.valid {
				t.Fatalf("IsValidQuantity(%d) = %v, want %v", tt.quantity, got, tt.valid)
			}
		})
	}
}

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailExtractor(t *testing.T) {
	ex, err := newDetailExtractor()
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantDetail string
		wantFields map[string][]string
	}{
		{
			name:       "error key wins",
			body:       `{"error":"Invalid credentials","code":"invalid_credentials"}`,
			wantDetail: "Invalid credentials",
		},
		{
			name:       "detail key",
			body:       `{"detail":"Not allowed"}`,
			wantDetail: "Not allowed",
		},
		{
			name:       "message key",
			body:       `{"message":"boom"}`,
			wantDetail: "boom",
		},
		{
			name:       "validation map",
			body:       `{"email":["Enter a valid email address."],"password":["This field is required."]}`,
			wantDetail: "email: Enter a valid email address.\npassword: This field is required.",
			wantFields: map[string][]string{
				"email":    {"Enter a valid email address."},
				"password": {"This field is required."},
			},
		},
		{
			name:       "unknown object re-serialized",
			body:       `{"nested":{"weird":true}}`,
			wantDetail: `{"nested":{"weird":true}}`,
		},
		{
			name: "non-JSON body yields nothing",
			body: "upstream exploded",
		},
		{
			name: "empty body yields nothing",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, fields := ex.extract([]byte(tt.body))
			assert.Equal(t, tt.wantDetail, detail)
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

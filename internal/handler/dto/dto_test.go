package dto

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{"product_ok", &CreateProductRequest{Title: "tv", LowPrice: 10}, ""},
		{"product_no_title", &CreateProductRequest{LowPrice: 10}, "Title failed required"},
		{"product_negative_price", &CreateProductRequest{Title: "tv", LowPrice: -1}, "LowPrice failed gte=0"},
		{"product_price_too_large", &CreateProductRequest{Title: "tv", LowPrice: 2147483648}, "LowPrice failed lte=2147483647"},
		{"update_ok", &UpdateProductRequest{MyPrice: intPtr(0)}, ""},
		{"update_missing", &UpdateProductRequest{}, "MyPrice failed required"},
		{"update_negative", &UpdateProductRequest{MyPrice: intPtr(-3)}, "MyPrice failed gte=0"},
		{"update_price_too_large", &UpdateProductRequest{MyPrice: intPtr(2147483648)}, "MyPrice failed lte=2147483647"},
		{"folders_ok", &CreateFoldersRequest{FolderNames: []string{"a", "b"}}, ""},
		{"folders_empty", &CreateFoldersRequest{FolderNames: []string{}}, "FolderNames failed min=1"},
		{"folders_blank_name", &CreateFoldersRequest{FolderNames: []string{""}}, "FolderNames[0] failed required"},
		{"folders_long_name", &CreateFoldersRequest{FolderNames: []string{strings.Repeat("n", 101)}}, "FolderNames[0] failed max=100"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Validate(test.value)
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("expected error containing %q, got %v", test.wantErr, err)
			}
		})
	}
}

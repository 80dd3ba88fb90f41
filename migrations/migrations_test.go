package migrations

import (
	"strings"
	"testing"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db", "pgx5://u:p@localhost:5432/db"},
		{"postgresql://localhost/db", "pgx5://localhost/db"},
		{"pgx5://localhost/db", "pgx5://localhost/db"},
	}

	for _, tt := range tests {
		if got := driverURL(tt.in); got != tt.want {
			t.Errorf("driverURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatements_Order(t *testing.T) {
	up, err := Statements("up")
	if err != nil {
		t.Fatalf("up statements: %v", err)
	}
	down, err := Statements("down")
	if err != nil {
		t.Fatalf("down statements: %v", err)
	}

	if len(up) != 4 || len(down) != 4 {
		t.Fatalf("expected 4 up and 4 down migrations, got %d and %d", len(up), len(down))
	}
	if !strings.Contains(up[0], "CREATE TABLE IF NOT EXISTS users") {
		t.Errorf("first up migration should create users")
	}
	if !strings.Contains(down[0], "api_usage") {
		t.Errorf("first down migration should drop api_usage")
	}
	if !strings.Contains(up[3], "CREATE TABLE IF NOT EXISTS api_usage") {
		t.Errorf("last up migration should create api_usage")
	}
}

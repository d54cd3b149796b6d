package database

import (
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT id FROM courses WHERE category = ? AND level = ?"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want unchanged", result)
		}
	})

	t.Run("BoolValue", func(t *testing.T) {
		if dialect.BoolValue(true) != "1" || dialect.BoolValue(false) != "0" {
			t.Error("BoolValue() should return 1/0 for SQLite")
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "UPDATE users SET total_points = total_points + ? WHERE id = ?"
		expected := "UPDATE users SET total_points = total_points + $1 WHERE id = $2"
		if result := dialect.RewriteQuery(query); result != expected {
			t.Errorf("RewriteQuery() = %v, want %v", result, expected)
		}
	})

	t.Run("BoolValue", func(t *testing.T) {
		if dialect.BoolValue(true) != "TRUE" || dialect.BoolValue(false) != "FALSE" {
			t.Error("BoolValue() should return TRUE/FALSE for PostgreSQL")
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "DELETE FROM sessions WHERE id = ?"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want unchanged", result)
		}
	})
}

func TestAppendReturningID(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "trailing semicolon stripped",
			query: "INSERT INTO courses (title) VALUES ($1);",
			want:  "INSERT INTO courses (title) VALUES ($1) RETURNING id",
		},
		{
			name:  "no semicolon",
			query: "INSERT INTO courses (title) VALUES ($1)",
			want:  "INSERT INTO courses (title) VALUES ($1) RETURNING id",
		},
		{
			name:  "trailing whitespace",
			query: "INSERT INTO courses (title) VALUES ($1)  ",
			want:  "INSERT INTO courses (title) VALUES ($1) RETURNING id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := appendReturningID(tt.query); got != tt.want {
				t.Errorf("appendReturningID() = %v, want %v", got, tt.want)
			}
		})
	}
}

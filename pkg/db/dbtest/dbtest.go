// Package dbtest opens isolated in-memory sqlite databases carrying the
// service schema, for repository tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const schema = `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT,
  google_subject TEXT UNIQUE,
  display_name TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE profiles (
  user_id TEXT PRIMARY KEY REFERENCES users(id),
  email TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  quiz_data TEXT,
  quiz_updated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE saved_routines (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  am TEXT NOT NULL,
  pm TEXT NOT NULL,
  tip TEXT,
  created_at DATETIME NOT NULL
);
CREATE TABLE saved_products (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  source TEXT NOT NULL,
  barcode TEXT,
  product_name TEXT NOT NULL,
  description TEXT NOT NULL,
  harmful_ingredients TEXT,
  comedogenicity TEXT NOT NULL,
  suitable_skin_types TEXT,
  solves_problems TEXT,
  scanned_at DATETIME NOT NULL
);`

// Open returns a fresh database with every table created.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

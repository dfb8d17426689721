package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RefreshSchedule != "@every 15m" {
		t.Errorf("RefreshSchedule = %q", cfg.RefreshSchedule)
	}
	if cfg.VendorCacheTTL != 10*time.Minute {
		t.Errorf("VendorCacheTTL = %v, want 10m", cfg.VendorCacheTTL)
	}
	if cfg.LoadMoreDelay() != 300*time.Millisecond {
		t.Errorf("LoadMoreDelay = %v", cfg.LoadMoreDelay())
	}
	if cfg.RecommendationLimit != 12 {
		t.Errorf("RecommendationLimit = %d", cfg.RecommendationLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("LOAD_MORE_DELAY_MS", "-5")
	t.Setenv("ARCHIVE_ENDPOINT", "minio:9000")

	v, err := NewViper("")
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || !cfg.Debug {
		t.Errorf("Port=%q Debug=%v", cfg.Port, cfg.Debug)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.LoadMoreDelayMS != 0 {
		t.Errorf("LoadMoreDelayMS = %d, want 0", cfg.LoadMoreDelayMS)
	}
	if cfg.Archive.Endpoint != "minio:9000" {
		t.Errorf("Archive.Endpoint = %q", cfg.Archive.Endpoint)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giftshop.yaml")
	if err := os.WriteFile(path, []byte("app_name: fromfile\nrecommendation_limit: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "fromfile" || cfg.RecommendationLimit != 4 {
		t.Errorf("AppName=%q RecommendationLimit=%d", cfg.AppName, cfg.RecommendationLimit)
	}
}

func TestNewViper_MissingFile(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQL: MySQL{User: "u", Pass: "p", Host: "h", DB: "shop"}}
	want := "u:p@tcp(h:3306)/shop?parseTime=true&charset=utf8mb4&loc=Local"
	if got := c.MySQLDSN(); got != want {
		t.Errorf("MySQLDSN = %q, want %q", got, want)
	}
	c.MySQL.DSN = "explicit"
	if got := c.MySQLDSN(); got != "explicit" {
		t.Errorf("MySQLDSN = %q, want explicit", got)
	}
}

func TestDialector(t *testing.T) {
	if _, err := (&Config{DBDriver: "oracle"}).Dialector(); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := (&Config{DBDriver: "postgres"}).Dialector(); err == nil {
		t.Error("expected error for postgres without dsn")
	}
	d, err := (&Config{DBDriver: "sqlite", SQLitePath: ":memory:"}).Dialector()
	if err != nil || d.Name() != "sqlite" {
		t.Errorf("sqlite dialector = %v, %v", d, err)
	}
}

func TestNewDB_SQLite(t *testing.T) {
	t.Setenv("GORM_LOG", "off")
	db, err := NewDB(&Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "t.db")})
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("GIFTSHOP_TEST_KEY", "")
	if got := GetEnv("GIFTSHOP_TEST_KEY", "fb"); got != "fb" {
		t.Errorf("GetEnv empty = %q", got)
	}
	t.Setenv("GIFTSHOP_TEST_KEY", "set")
	if got := GetEnv("GIFTSHOP_TEST_KEY", "fb"); got != "set" {
		t.Errorf("GetEnv set = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l, err := NewLogger(debug)
		if err != nil || l == nil {
			t.Fatalf("NewLogger(%v) = %v, %v", debug, l, err)
		}
	}
}

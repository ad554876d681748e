package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" || cfg.Env != "dev" {
		t.Fatalf("port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.Operators != 10 || cfg.Customers != 5 || cfg.Seats != 15 || cfg.Days != 5 {
		t.Fatalf("population defaults: %+v", cfg)
	}
	if cfg.ShiftOpen != 480 || cfg.ShiftClose != 1200 {
		t.Fatalf("shift window = [%d,%d)", cfg.ShiftOpen, cfg.ShiftClose)
	}
	if cfg.MinuteDuration != 50*time.Millisecond {
		t.Fatalf("minute duration = %s", cfg.MinuteDuration)
	}
	if cfg.ArchiveEnabled() {
		t.Fatalf("archive enabled without DB_HOST")
	}
	if cfg.AdminEnabled() {
		t.Fatalf("admin enabled without credentials")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NUM_OPERATORS", "3")
	t.Setenv("NUM_USERS", "7")
	t.Setenv("SIM_DURATION", "2")
	t.Setenv("MINUTE_DURATION", "5ms")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("SIM_VERBOSE", "true")
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg := Load()
	if cfg.Operators != 3 || cfg.Customers != 7 || cfg.Days != 2 {
		t.Fatalf("env overrides ignored: %+v", cfg)
	}
	if cfg.MinuteDuration != 5*time.Millisecond {
		t.Fatalf("minute duration = %s", cfg.MinuteDuration)
	}
	if cfg.Seed != 42 || !cfg.Verbose {
		t.Fatalf("seed=%d verbose=%v", cfg.Seed, cfg.Verbose)
	}
	if !cfg.ArchiveEnabled() || !cfg.AdminEnabled() {
		t.Fatalf("integrations not enabled by env")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("NUM_OPERATORS", "many")
	t.Setenv("MINUTE_DURATION", "soon")
	t.Setenv("PAUSE_PROB", "often")
	t.Setenv("SIM_VERBOSE", "maybe")

	cfg := Load()
	if cfg.Operators != 10 {
		t.Fatalf("operators = %d, want default 10", cfg.Operators)
	}
	if cfg.MinuteDuration != 50*time.Millisecond {
		t.Fatalf("minute duration = %s, want default", cfg.MinuteDuration)
	}
	if cfg.PauseProb != 0.02 {
		t.Fatalf("pause prob = %v, want default", cfg.PauseProb)
	}
	if cfg.Verbose {
		t.Fatalf("unparseable bool enabled verbose")
	}
}

func TestSimConfigMapping(t *testing.T) {
	t.Setenv("NUM_OPERATORS", "4")
	t.Setenv("NUM_WORKER_SEATS", "9")
	t.Setenv("P_SERV_MIN", "10")
	t.Setenv("P_SERV_MAX", "50")
	t.Setenv("EXPLODE_MAX", "12")

	sc := Load().SimConfig()
	if sc.Operators != 4 || sc.Seats != 9 {
		t.Fatalf("sim config = %+v", sc)
	}
	if sc.VisitMin != 10 || sc.VisitMax != 50 {
		t.Fatalf("visit bounds = [%d,%d)", sc.VisitMin, sc.VisitMax)
	}
	if sc.ExplodeMax != 12 {
		t.Fatalf("explode max = %d", sc.ExplodeMax)
	}
	sc.Normalize()
	if err := sc.Validate(); err != nil {
		t.Fatalf("mapped config invalid: %v", err)
	}
}

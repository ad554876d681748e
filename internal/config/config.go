package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/iliyamo/post-office-sim/internal/sim"
)

// Config holds every runtime configuration value.  Each field corresponds
// to an environment variable; simulation knobs default to the reference
// values so the server runs without any environment at all, while the
// optional integrations (MySQL archive, Redis, admin API auth) stay
// disabled until their variables are set.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	// Admin API auth.  When JWTSecret or AdminPassword is empty the
	// population-change endpoint is not registered.
	JWTSecret     string
	AdminPassword string
	AccessTTLMin  int

	// MySQL report archive.  Enabled only when DBHost is non-empty.
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// PublishEvents turns on AMQP publishing of day-closed and
	// simulation-ended events; ConsumeEvents additionally starts the
	// in-process consumer that appends them to logs/day.log.
	PublishEvents bool
	ConsumeEvents bool

	// Simulation knobs, mapped onto the core configuration.
	Operators      int
	Customers      int
	Seats          int
	Days           int
	ShiftOpen      int // minute of day
	ShiftClose     int // minute of day
	PServMin       int
	PServMax       int
	MinuteDuration time.Duration
	ExplodeMax     int
	MaxRequests    int
	MaxPauses      int
	PauseProb      float64
	Seed           int64
	Verbose        bool
}

// Load reads the environment and returns a Config.  Values that fail to
// parse fall back to their defaults; a non-positive agent population is
// rejected later by the simulation's own validation, which is fatal at
// startup.
func Load() Config {
	return Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          getenv("APP_PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AccessTTLMin:  envInt("ACCESS_TOKEN_TTL_MIN", 60),
		DBUser:        getenv("DB_USER", "root"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        getenv("DB_PORT", "3306"),
		DBName:        getenv("DB_NAME", "poste"),
		PublishEvents: envBool("PUBLISH_EVENTS", false),
		ConsumeEvents: envBool("CONSUME_EVENTS", false),

		Operators:      envInt("NUM_OPERATORS", 10),
		Customers:      envInt("NUM_USERS", 5),
		Seats:          envInt("NUM_WORKER_SEATS", 15),
		Days:           envInt("SIM_DURATION", 5),
		ShiftOpen:      envInt("WORKER_SHIFT_OPEN", 8*60),
		ShiftClose:     envInt("WORKER_SHIFT_CLOSE", 20*60),
		PServMin:       envInt("P_SERV_MIN", 20),
		PServMax:       envInt("P_SERV_MAX", 100),
		MinuteDuration: envDur("MINUTE_DURATION", 50*time.Millisecond),
		ExplodeMax:     envInt("EXPLODE_MAX", 30),
		MaxRequests:    envInt("MAX_N_REQUESTS", 10),
		MaxPauses:      envInt("NOF_PAUSE", 3),
		PauseProb:      envFloat("PAUSE_PROB", 0.02),
		Seed:           envInt64("SIM_SEED", 0),
		Verbose:        envBool("SIM_VERBOSE", false),
	}
}

// SimConfig maps the environment values onto the simulation core's
// configuration.
func (c Config) SimConfig() sim.Config {
	return sim.Config{
		Operators:      c.Operators,
		Customers:      c.Customers,
		Seats:          c.Seats,
		Days:           c.Days,
		ShiftOpen:      c.ShiftOpen,
		ShiftClose:     c.ShiftClose,
		VisitMin:       c.PServMin,
		VisitMax:       c.PServMax,
		MaxRequests:    c.MaxRequests,
		ExplodeMax:     c.ExplodeMax,
		MaxPauses:      c.MaxPauses,
		PauseProb:      c.PauseProb,
		MinuteDuration: c.MinuteDuration,
		Seed:           c.Seed,
		Verbose:        c.Verbose,
	}
}

// ArchiveEnabled reports whether the MySQL report archive is configured.
func (c Config) ArchiveEnabled() bool { return c.DBHost != "" }

// AdminEnabled reports whether the authenticated admin API can be served.
func (c Config) AdminEnabled() bool { return c.JWTSecret != "" && c.AdminPassword != "" }

// Shared environment helpers.  Parse failures are logged once and the
// default is used; only the simulation's own validation is fatal.

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int for %s: %q, using %d", key, v, def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("config: invalid int for %s: %q, using %d", key, v, def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid float for %s: %q, using %g", key, v, def)
		return def
	}
	return f
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid duration for %s: %q, using %s", key, v, def)
		return def
	}
	return d
}

// Package config assembles the application configuration from defaults,
// .env files, environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrMissingPassword = errors.New("DB_PASSWORD is required")
	ErrUnknownDriver   = errors.New("unknown database driver")
)

var AppFs = afero.NewOsFs()

type Config struct {
	Port    int
	Env     string
	JWTKey  string
	Fixture string
	DB      DB
}

type DB struct {
	Driver      string
	User        string
	Password    string
	Host        string
	Port        int
	Name        string
	SSLMode     string
	MaxIdleTime time.Duration
}

// setting ties a viper key to its environment variable, flag and default.
type setting struct {
	key   string
	env   string
	flag  string
	usage string
	def   any
}

var settings = []setting{
	{"db_driver", "DB_DRIVER", "db-driver", "database driver (postgres|pgx|mysql|sqlite3|sqlite)", "postgres"},
	{"db_user", "DB_USER", "db-user", "database user", "postgres"},
	{"db_password", "DB_PASSWORD", "db-password", "database password", ""},
	{"db_host", "DB_HOST", "db-host", "database host", "localhost"},
	{"db_port", "DB_PORT", "db-port", "database port (engine default when 0)", 0},
	{"db_name", "DB_NAME", "db-name", "database name, or file path for sqlite3", "Books_sales_db"},
	{"db_sslmode", "DB_SSLMODE", "db-sslmode", "PostgreSQL sslmode", "disable"},
	{"db_max_idle_time", "DB_MAX_IDLE_TIME", "db-max-idle-time", "maximum connection idle time", "15m"},
	{"fixture", "FIXTURE", "fixture", "fixture file path or s3://bucket/key", "tests_data.json"},
	{"port", "PORT", "port", "report server port", 4000},
	{"env", "ENV", "env", "environment (development|staging|production)", "development"},
	{"jwt_key", "JWT_KEY", "jwt-key", "HS256 key for report API tokens", ""},
}

// New returns a viper instance with defaults and environment bindings set.
func New() *viper.Viper {
	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		v.BindEnv(s.key, s.env)
	}
	return v
}

// BindFlags registers one flag per setting on fs and binds it into v. Flag
// defaults are left empty; unchanged flags fall through to env and defaults.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	for _, s := range settings {
		switch s.def.(type) {
		case int:
			fs.Int(s.flag, 0, s.usage)
		default:
			fs.String(s.flag, "", s.usage)
		}
		if err := v.BindPFlag(s.key, fs.Lookup(s.flag)); err != nil {
			return err
		}
	}
	return nil
}

// LoadEnvFiles merges .env and then .env.local into v below the real
// environment. Missing files are ignored.
func LoadEnvFiles(fs afero.Fs, v *viper.Viper) error {
	for _, name := range []string{".env", ".env.local"} {
		f, err := fs.Open(name)
		if err != nil {
			continue
		}
		vars, err := godotenv.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		if err := v.MergeConfigMap(fromEnvNames(vars)); err != nil {
			return fmt.Errorf("merge %s: %w", name, err)
		}
	}
	return nil
}

func fromEnvNames(vars map[string]string) map[string]any {
	out := make(map[string]any, len(vars))
	for _, s := range settings {
		if val, ok := vars[s.env]; ok {
			out[s.key] = val
		}
	}
	return out
}

// Load reads the final configuration out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	idle, err := time.ParseDuration(v.GetString("db_max_idle_time"))
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse DB_MAX_IDLE_TIME: %w", err)
	}

	cfg := Config{
		Port:    v.GetInt("port"),
		Env:     v.GetString("env"),
		JWTKey:  v.GetString("jwt_key"),
		Fixture: v.GetString("fixture"),
		DB: DB{
			Driver:      v.GetString("db_driver"),
			User:        v.GetString("db_user"),
			Password:    v.GetString("db_password"),
			Host:        v.GetString("db_host"),
			Port:        v.GetInt("db_port"),
			Name:        v.GetString("db_name"),
			SSLMode:     v.GetString("db_sslmode"),
			MaxIdleTime: idle,
		},
	}
	if cfg.DB.Driver == "postgresql" {
		cfg.DB.Driver = "postgres"
	}
	if err := cfg.DB.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = cfg.DB.defaultPort()
	}
	return cfg, nil
}

func (db DB) Validate() error {
	switch db.Driver {
	case "postgres", "pgx", "mysql":
		if db.Password == "" {
			return ErrMissingPassword
		}
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("%w %q", ErrUnknownDriver, db.Driver)
	}
	return nil
}

func (db DB) defaultPort() int {
	switch db.Driver {
	case "mysql":
		return 3306
	case "sqlite3", "sqlite":
		return 0
	}
	return 5432
}

// DSN builds the data source name for the configured driver.
func (db DB) DSN() (string, error) {
	switch db.Driver {
	case "postgres", "pgx":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.User, db.Password),
			Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			Path:     "/" + db.Name,
			RawQuery: url.Values{"sslmode": {db.SSLMode}}.Encode(),
		}
		return u.String(), nil
	case "mysql":
		c := mysql.NewConfig()
		c.User = db.User
		c.Passwd = db.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		c.DBName = db.Name
		c.ParseTime = true
		return c.FormatDSN(), nil
	case "sqlite3":
		return "file:" + db.Name + "?_foreign_keys=on", nil
	case "sqlite":
		return "file:" + db.Name + "?_pragma=foreign_keys(1)", nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownDriver, db.Driver)
}

// String renders the configuration with the password masked.
func (c Config) String() string {
	jwt := "unset"
	if c.JWTKey != "" {
		jwt = "set"
	}
	return fmt.Sprintf("env=%s port=%d fixture=%s jwt=%s db={driver=%s user=%s host=%s port=%d name=%s}",
		c.Env, c.Port, c.Fixture, jwt, c.DB.Driver, c.DB.User, c.DB.Host, c.DB.Port, c.DB.Name)
}

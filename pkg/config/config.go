package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config regroupe la configuration de l'application (lecture via Viper depuis
// l'environnement et, optionnellement, un fichier .env).
type Config struct {
	App         AppConfig
	DB          DBConfig
	Pool        PoolConfig
	Session     SessionConfig
	HTTP        HTTPConfig
	Maintenance MaintenanceConfig
}

// AppConfig configuration générale.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuration PostgreSQL.
// Si DatabaseURL est renseigné, il est utilisé tel quel comme DSN complet.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString retourne le DSN à utiliser : DATABASE_URL si défini, sinon
// le DSN construit champ par champ.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construit le connection string PostgreSQL, avec encodage URL du mot de
// passe (caractères spéciaux).
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// PoolConfig dimensionnement du pool de connexions.
type PoolConfig struct {
	MinConns       int32
	MaxConns       int32
	AcquireTimeout time.Duration // attente bornée d'un slot libre
}

// SessionConfig durée de vie des sessions utilisateur.
type SessionConfig struct {
	TTL time.Duration
}

// HTTPConfig serveur HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr retourne l'adresse d'écoute (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaintenanceConfig heures (0-23) des passes automatiques.
type MaintenanceConfig struct {
	CleanupHour      int // nettoyage + assignation automatique
	NotificationHour int // rapports quotidiens
}

// Load lit la configuration depuis les variables d'environnement (et un
// fichier .env optionnel). Les variables d'environnement sont prioritaires.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // fichier optionnel

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "prospectius"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "prospection"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "prospectius"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Pool: PoolConfig{
			MinConns:       int32(getInt(v, "POOL_MIN_CONNS", 5)),
			MaxConns:       int32(getInt(v, "POOL_MAX_CONNS", 20)),
			AcquireTimeout: time.Duration(getInt(v, "POOL_ACQUIRE_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Session: SessionConfig{
			TTL: time.Duration(getInt(v, "SESSION_TTL_HOURS", 8)) * time.Hour,
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Maintenance: MaintenanceConfig{
			CleanupHour:      getInt(v, "MAINTENANCE_CLEANUP_HOUR", 2),
			NotificationHour: getInt(v, "MAINTENANCE_NOTIFICATION_HOUR", 8),
		},
	}

	if cfg.Pool.MinConns > cfg.Pool.MaxConns {
		return nil, fmt.Errorf("pool: min_conns (%d) > max_conns (%d)", cfg.Pool.MinConns, cfg.Pool.MaxConns)
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}

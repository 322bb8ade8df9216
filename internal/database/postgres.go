package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/viper"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// GetConfig returns database configuration with defaults
func GetConfig() *DBConfig {
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.name", "cmtracker")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", time.Minute*5)

	return &DBConfig{
		Host:            viper.GetString("database.host"),
		Port:            viper.GetString("database.port"),
		User:            viper.GetString("database.user"),
		Password:        viper.GetString("database.password"),
		Name:            viper.GetString("database.name"),
		SSLMode:         viper.GetString("database.ssl_mode"),
		MaxOpenConns:    viper.GetInt("database.max_open_conns"),
		MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
	}
}

// InitDB opens the connection pool and verifies connectivity
func InitDB() (*sql.DB, error) {
	config := GetConfig()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.Name, config.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	log.Println("Database connection established")
	return db, nil
}

// carsSchema bootstraps the single table plus the unique index on the
// normalized plate. The index is the authoritative duplicate-plate
// guard; the application-level pre-check only provides the friendly
// error message.
const carsSchema = `
CREATE TABLE IF NOT EXISTS cars (
	financeid SERIAL PRIMARY KEY,
	license_plate TEXT NOT NULL,
	registration_number TEXT,
	brand TEXT NOT NULL,
	model TEXT,
	color TEXT,
	chassis_no TEXT,
	engine_no TEXT,
	finance TEXT,
	finance_status TEXT NOT NULL,
	remaining_amount NUMERIC NOT NULL DEFAULT 0,
	monthly_payment NUMERIC NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS cars_license_plate_upper_idx
	ON cars (UPPER(license_plate));
`

// EnsureSchema creates the cars table and unique plate index if absent
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(carsSchema); err != nil {
		return fmt.Errorf("error ensuring cars schema: %w", err)
	}
	return nil
}

// InitDatabase initializes the database and schema with error handling
func InitDatabase() *sql.DB {
	db, err := InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := EnsureSchema(db); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	return db
}

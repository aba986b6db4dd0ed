package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	JWTSecret    string
	MongoURI     string
	DBName       string
	BridgeURL    string // Remote spreadsheet bridge endpoint
	BridgeToken  string
	StoreMode    string // "remote" | "workbook"
	WorkbookPath string // Only used when StoreMode is "workbook"
	SkipAuth     bool
	Environment  string
	AppId        string

	RetentionDays     int    // Operational records older than this are swept
	RetentionSchedule string // Cron expression for the nightly sweep
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "go-helpdesk"),
		BridgeURL:    getEnv("BRIDGE_URL", "http://localhost:9090/bridge"),
		BridgeToken:  getEnv("BRIDGE_TOKEN", ""),
		StoreMode:    getEnv("STORE_MODE", "remote"),
		WorkbookPath: getEnv("WORKBOOK_PATH", "./helpdesk.xlsx"),
		SkipAuth:     getEnv("SKIP_AUTH", "false") == "true",
		Environment:  getEnv("ENVIRONMENT", "development"),
		AppId:        getEnv("APP_ID", "go-helpdesk"),

		RetentionDays:     getEnvInt("AUDIT_RETENTION_DAYS", 180),
		RetentionSchedule: getEnv("RETENTION_SCHEDULE", "0 3 * * *"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

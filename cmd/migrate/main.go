package main

import (
	"os"

	"cricket-hub/database"
	"cricket-hub/logger"
)

// Creates the refresh_log schema without starting the service.
func main() {
	// 从环境变量获取数据库 URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatalf("DATABASE_URL environment variable is not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	logger.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}

	logger.Println("✅ Migrations completed successfully")
}

package health

import (
	"log"
	"time"

	"event-lists-go/redis"
	"event-lists-go/services"
)

func DatabaseHealthMonitor(dbService *services.DatabaseService) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := dbService.CheckHealth(); err != nil {
			log.Printf("ERROR: PostgreSQL connection health check failed: %v", err)
		}

		if err := redis.CheckHealth(); err != nil {
			log.Printf("ERROR: Redis connection health check failed: %v", err)
		}
	}
}

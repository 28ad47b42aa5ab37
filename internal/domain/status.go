package domain

import "time"

type ServiceStatus struct {
	Status            string    `json:"status"`
	DatabaseHealthy   bool      `json:"database_healthy"`
	RedisHealthy      bool      `json:"redis_healthy"`
	ExtractionBackend string    `json:"extraction_backend"`
	LLMProvider       string    `json:"llm_provider"`
	ServerTime        time.Time `json:"server_time"`
}

package models

import (
	"time"
)

// ConnectionConfig represents the hosted backend connection configuration
type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

// Connection represents an active backend connection
type Connection struct {
	Config      ConnectionConfig
	Connected   bool
	ConnectedAt time.Time
	Error       error
}

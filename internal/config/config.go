// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration. Defaults target local
// development with the Spanner emulator and a single-broker Kafka.
type Config struct {
	SpannerDatabase string `envconfig:"SPANNER_DATABASE" default:"projects/test-project/instances/dev-instance/databases/product-db"`
	HTTPPort        string `envconfig:"HTTP_PORT" default:"8080"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	TopicProductCreated       string `envconfig:"TOPIC_PRODUCT_CREATED" default:"product-created"`
	TopicProductUpdated       string `envconfig:"TOPIC_PRODUCT_UPDATED" default:"product-updated"`
	TopicProductDeleted       string `envconfig:"TOPIC_PRODUCT_DELETED" default:"product-deleted"`
	TopicProductStatusChanged string `envconfig:"TOPIC_PRODUCT_STATUS_CHANGED" default:"product-status-changed"`
	TopicInventoryLowStock    string `envconfig:"TOPIC_INVENTORY_LOW_STOCK" default:"inventory-low-stock"`
	TopicInventoryRestocked   string `envconfig:"TOPIC_INVENTORY_RESTOCKED" default:"inventory-restocked"`
	ConsumerGroupID           string `envconfig:"CONSUMER_GROUP_ID" default:"product-service-group"`

	UserServiceURL string `envconfig:"USER_SERVICE_URL" default:"http://localhost:8081"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

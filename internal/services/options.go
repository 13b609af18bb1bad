package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/consumer"
	"github.com/light-bringer/product-service/internal/app/product/repo"
	"github.com/light-bringer/product-service/internal/app/product/service"
	"github.com/light-bringer/product-service/internal/clients/user"
	"github.com/light-bringer/product-service/internal/config"
	"github.com/light-bringer/product-service/internal/pkg/clock"
	httptransport "github.com/light-bringer/product-service/internal/transport/http"
	kafkatransport "github.com/light-bringer/product-service/internal/transport/kafka"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient     *spanner.Client
	Publisher         *kafkatransport.Publisher
	ProductService    *service.ProductService
	ProductHandler    *httptransport.ProductHandler
	InventoryConsumer *consumer.InventoryConsumer
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Infrastructure
	clk := clock.NewRealClock()
	productRepo := repo.NewProductRepo(spannerClient, clk, logger)

	publisher := kafkatransport.NewPublisher(cfg.KafkaBrokers, kafkatransport.Topics{
		Created:       cfg.TopicProductCreated,
		Updated:       cfg.TopicProductUpdated,
		Deleted:       cfg.TopicProductDeleted,
		StatusChanged: cfg.TopicProductStatusChanged,
	}, logger)

	// 3. Application service
	productService := service.NewProductService(productRepo, publisher, clk, logger)

	// 4. Transport
	userClient := user.NewClient(cfg.UserServiceURL, logger)
	productHandler := httptransport.NewProductHandler(productService, userClient, logger)

	// 5. Inventory consumers, one reader per topic sharing the group id
	lowStockReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: cfg.ConsumerGroupID,
		Topic:   cfg.TopicInventoryLowStock,
	})
	restockedReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: cfg.ConsumerGroupID,
		Topic:   cfg.TopicInventoryRestocked,
	})
	inventoryConsumer := consumer.NewInventoryConsumer(lowStockReader, restockedReader, productService, logger)

	return &ServiceOptions{
		SpannerClient:     spannerClient,
		Publisher:         publisher,
		ProductService:    productService,
		ProductHandler:    productHandler,
		InventoryConsumer: inventoryConsumer,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.InventoryConsumer != nil {
		_ = s.InventoryConsumer.Close()
	}
	if s.Publisher != nil {
		_ = s.Publisher.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}

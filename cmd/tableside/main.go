package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ordersys/tableside/internal/adapter/csvlog"
	"github.com/ordersys/tableside/internal/adapter/logger"
	"github.com/ordersys/tableside/internal/adapter/postgres"
	"github.com/ordersys/tableside/internal/adapter/printer"
	"github.com/ordersys/tableside/internal/adapter/rabbitmq"
	"github.com/ordersys/tableside/internal/app/auth"
	"github.com/ordersys/tableside/internal/app/dispatch"
	"github.com/ordersys/tableside/internal/app/menu"
	"github.com/ordersys/tableside/internal/app/order"
	"github.com/ordersys/tableside/internal/config"
	"github.com/ordersys/tableside/internal/domain"
	"github.com/ordersys/tableside/internal/interfaces"

	httpAdapter "github.com/ordersys/tableside/internal/adapter/http"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lgr := logger.New("tableside")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Database + migrations.
	if err := postgres.Migrate(ctx, cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	// Optional event broker.
	var publisher interfaces.MessagePublisher
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqConn.Close()

		publisher = rabbitmq.NewPublisher(mqConn)
		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
	}

	// Printer fleet and router.
	router := dispatch.NewRouter(buildEndpoints(cfg.Printers), lgr)

	// Queue + dispatcher: the single background consumer.
	queue := dispatch.NewQueue()
	dispatcher := dispatch.NewDispatcher(queue, router, publisher, lgr,
		cfg.Dispatch.RetryInitial(), cfg.Dispatch.RetryMax())

	go func() {
		if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
			lgr.Error("dispatcher_stopped", "Dispatcher loop exited", "", nil, err)
			cancel()
		}
	}()

	// Services.
	orderRepo := postgres.NewOrderRepository(db)
	userRepo := postgres.NewUserRepository(db)
	fallback := csvlog.NewWriter(cfg.Fallback.CSVPath)

	orderService := order.NewService(orderRepo, queue, router, fallback, publisher, lgr)
	authService := auth.NewService(userRepo, lgr)

	menuService, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		log.Fatalf("Failed to load menu: %v", err)
	}

	// HTTP surface.
	handler := httpAdapter.NewRouter(
		httpAdapter.NewOrderHandler(orderService, lgr),
		httpAdapter.NewDashboardHandler(orderService, lgr),
		httpAdapter.NewMenuHandler(menuService),
		httpAdapter.NewAuthHandler(authService, lgr),
		authService,
		lgr,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Tableside started on port %d", cfg.HTTP.Port), "", map[string]interface{}{
		"port":          cfg.HTTP.Port,
		"mock_printers": cfg.Printers.Mock,
	})

	go func() {
		<-ctx.Done()

		lgr.Info("shutdown_initiated", "Shutting down", "", nil)

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "", nil, err)
	}
}

// buildEndpoints constructs the static category→endpoint mapping. When no
// separate drinks printer is configured both categories share the food
// printer; the router deduplicates it for probing.
func buildEndpoints(cfg config.PrintersConfig) map[domain.Category]interfaces.PrinterEndpoint {
	if cfg.Mock {
		food := printer.NewMockEndpoint("food_printer")
		drinks := printer.NewMockEndpoint("drinks_printer")
		return map[domain.Category]interfaces.PrinterEndpoint{
			domain.CategoryFood:  food,
			domain.CategoryDrink: drinks,
		}
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	probeTTL := time.Duration(cfg.ProbeTTLSeconds) * time.Second

	food := printer.NewNetworkEndpoint("food_printer", cfg.FoodAddress, timeout, probeTTL)

	var drinks interfaces.PrinterEndpoint = food
	if cfg.DrinksAddress != "" && cfg.DrinksAddress != cfg.FoodAddress {
		drinks = printer.NewNetworkEndpoint("drinks_printer", cfg.DrinksAddress, timeout, probeTTL)
	}

	return map[domain.Category]interfaces.PrinterEndpoint{
		domain.CategoryFood:  food,
		domain.CategoryDrink: drinks,
	}
}

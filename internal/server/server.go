package server

import (
	"catalog/app/enquiry"
	"catalog/app/health"
	"catalog/app/item"
	"catalog/domain"
	"catalog/infra/database"
	"catalog/internal/middleware"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/notify"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Store interface {
	item.Repository
	enquiry.Repository
	health.Pinger
}

type Dependencies struct {
	Config    *config.AppConfig
	Store     Store
	Images    item.ImageStore
	Notifier  notify.Notifier
	Publisher events.Publisher
	// ServeUploads mounts UploadDir under UploadURLPrefix. Only the disk
	// backend keeps files there.
	ServeUploads bool
}

type Server struct {
	App       *fiber.App
	enquiries *enquiry.CreateEnquiryHandler
}

var _ Store = (*database.Store)(nil)

func New(deps Dependencies) *Server {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      cfg.ServiceName,
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    cfg.BodyLimitBytes,
		ErrorHandler: writeError,
	})

	app.Use(middleware.NewRequestLoggerMiddleware())
	app.Use(recover.New())
	app.Use(middleware.NewSecurityHeadersMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	if deps.ServeUploads {
		app.Static(cfg.UploadURLPrefix, cfg.UploadDir, fiber.Static{
			MaxAge: int((24 * time.Hour).Seconds()),
		})
	}

	getItems := item.NewGetItemsHandler(deps.Store)
	getItem := item.NewGetItemHandler(deps.Store)
	createItem := item.NewCreateItemHandler(deps.Store, deps.Images, deps.Publisher, cfg.ServiceName)
	updateItem := item.NewUpdateItemHandler(deps.Store, deps.Images, deps.Publisher, cfg.ServiceName)
	deleteItem := item.NewDeleteItemHandler(deps.Store, deps.Publisher, cfg.ServiceName)
	getItemsByType := item.NewGetItemsByTypeHandler(deps.Store)
	getTypes := item.NewGetTypesHandler(deps.Store)

	createEnquiry := enquiry.NewCreateEnquiryHandler(deps.Store, deps.Notifier, notify.Addressing{
		StoreEmail: cfg.StoreEmail,
		MailFrom:   cfg.MailFrom,
	})
	getEnquiries := enquiry.NewGetEnquiriesHandler(deps.Store)

	var broker health.Broker
	if b, ok := deps.Publisher.(health.Broker); ok {
		broker = b
	}
	getHealth := health.NewGetHealthHandler(deps.Store, broker)

	api := app.Group("/api")
	api.Get("/items", handle[item.GetItemsRequest, item.GetItemsResponse](getItems))
	api.Get("/items/meta/types", handle[item.GetTypesRequest, item.GetTypesResponse](getTypes))
	api.Get("/items/type/:type", handle[item.GetItemsByTypeRequest, item.GetItemsResponse](getItemsByType))
	api.Get("/items/:id", handle[item.GetItemRequest, domain.Item](getItem))
	api.Post("/items", handle[item.CreateItemRequest, item.CreateItemResponse](createItem))
	api.Put("/items/:id", handle[item.UpdateItemRequest, item.UpdateItemResponse](updateItem))
	api.Delete("/items/:id", handle[item.DeleteItemRequest, item.DeleteItemResponse](deleteItem))

	api.Post("/enquire", handle[enquiry.CreateEnquiryRequest, enquiry.CreateEnquiryResponse](createEnquiry))
	api.Get("/enquiries", handle[enquiry.GetEnquiriesRequest, enquiry.GetEnquiriesResponse](getEnquiries))

	api.Get("/health", handle[health.GetHealthRequest, health.GetHealthResponse](getHealth))

	return &Server{
		App:       app,
		enquiries: createEnquiry,
	}
}

// Shutdown stops accepting requests, waits for in-flight ones, then for any
// enquiry notifications still being sent.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.App.ShutdownWithContext(ctx)

	done := make(chan struct{})
	go func() {
		s.enquiries.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		zap.L().Warn("Gave up waiting for enquiry notifications", zap.Error(ctx.Err()))
	}

	return err
}

// WaitForNotifications blocks until background enquiry notifications finish.
func (s *Server) WaitForNotifications() {
	s.enquiries.Wait()
}

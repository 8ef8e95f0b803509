package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lorryledger/handlers"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID, X-Company-ID")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func SetupRoutes(
	logger *zap.Logger,
	shipmentHandler *handlers.ShipmentHandler,
	invoiceHandler *handlers.InvoiceHandler,
	companyHandler *handlers.CompanyHandler,
	ledgerHandler *handlers.LedgerHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(handlers.Recoverer(logger))
	r.Use(withCORS)

	// Shipment (LR) routes
	r.Route("/shipments", func(r chi.Router) {
		r.Post("/", shipmentHandler.CreateShipment)
		r.Get("/", shipmentHandler.ListShipments)
		r.Get("/next-number", shipmentHandler.NextNumber)
		r.Get("/{id}", shipmentHandler.GetShipment)
		r.Put("/{id}", shipmentHandler.UpdateShipment)
		r.Delete("/{id}", shipmentHandler.DeleteShipment)
		r.Put("/{id}/trip", shipmentHandler.SaveTripDetails)
	})

	// Invoice routes
	r.Post("/invoices", invoiceHandler.GenerateInvoice)
	r.Get("/invoices/{id}", invoiceHandler.GetInvoice)

	// Company profile (initial setup)
	r.Post("/company", companyHandler.SaveCompany)
	r.Get("/company", companyHandler.GetCompany)

	// Parties and vehicles
	r.Post("/parties", ledgerHandler.SaveParty)
	r.Get("/parties/{kind}/{id}", ledgerHandler.GetParty)
	r.Post("/vehicles", ledgerHandler.SaveVehicle)
	r.Get("/vehicles/{id}", ledgerHandler.GetVehicle)

	return r
}

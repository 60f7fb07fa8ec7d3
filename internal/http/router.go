package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voltbook/internal/http/handlers"
	"voltbook/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Auth     *handlers.AuthHandlers
	Stations *handlers.StationHandlers
	Bookings *handlers.BookingHandlers
	Vehicles *handlers.VehicleHandlers
	Wallet   *handlers.WalletHandlers
	Health   http.HandlerFunc
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	authed := func(handler http.HandlerFunc) http.Handler {
		return auth(handler)
	}
	admin := func(handler http.HandlerFunc) http.Handler {
		return auth(middleware.RequireAdmin(handler))
	}

	mux.HandleFunc("GET /health", deps.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/signup", deps.Auth.Signup)
	mux.HandleFunc("POST /api/auth/login", deps.Auth.Login)
	mux.Handle("GET /api/users/me", authed(deps.Auth.Profile))
	mux.Handle("PUT /api/users/me", authed(deps.Auth.UpdateProfile))
	mux.Handle("POST /api/users/me/subscription", authed(deps.Auth.Subscribe))

	mux.HandleFunc("GET /api/stations", deps.Stations.List)
	mux.HandleFunc("GET /api/stations/{id}", deps.Stations.Get)
	mux.Handle("POST /api/stations", admin(deps.Stations.Create))
	mux.Handle("PUT /api/stations/{id}", admin(deps.Stations.Update))
	mux.Handle("DELETE /api/stations/{id}", admin(deps.Stations.Delete))
	mux.Handle("PUT /api/stations/{id}/chargers/{number}/status", admin(deps.Stations.SetChargerStatus))

	mux.Handle("GET /api/stations/{id}/availability", authed(deps.Bookings.Availability))
	mux.Handle("GET /api/stations/{id}/bookings", admin(deps.Bookings.StationBookings))
	mux.Handle("GET /api/stations/{id}/chargers/{number}/active", authed(deps.Bookings.ActiveOnCharger))

	mux.Handle("POST /api/bookings", authed(deps.Bookings.Create))
	mux.Handle("GET /api/bookings/me", authed(deps.Bookings.Mine))
	mux.Handle("GET /api/bookings/{id}", authed(deps.Bookings.Get))
	mux.Handle("POST /api/bookings/{id}/cancel", authed(deps.Bookings.Cancel))
	mux.Handle("PUT /api/bookings/{id}/status", admin(deps.Bookings.UpdateStatus))

	mux.Handle("POST /api/vehicles", authed(deps.Vehicles.Add))
	mux.Handle("GET /api/vehicles/me", authed(deps.Vehicles.Mine))
	mux.Handle("GET /api/vehicles/plate/{plate}", authed(deps.Vehicles.ByPlate))
	mux.Handle("PUT /api/vehicles/{id}", authed(deps.Vehicles.Update))
	mux.Handle("DELETE /api/vehicles/{id}", authed(deps.Vehicles.Delete))

	mux.Handle("POST /api/wallet/deposit", authed(deps.Wallet.Deposit))
	mux.Handle("POST /api/wallet/withdraw", authed(deps.Wallet.Withdraw))
	mux.Handle("GET /api/wallet/balance", authed(deps.Wallet.Balance))
	mux.Handle("GET /api/wallet/transactions", authed(deps.Wallet.Transactions))
	mux.Handle("GET /api/wallet/check", authed(deps.Wallet.CheckBalance))

	return mux
}

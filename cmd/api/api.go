package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtbook/docs" //this is required to generate swagger docs
	"courtbook/internal/auth"
	"courtbook/internal/booking"
	"courtbook/internal/cache"
	"courtbook/internal/mailer"
	"courtbook/internal/notifications"
	"courtbook/internal/ratelimiter"
	"courtbook/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	engine        *booking.Engine
	availability  *cache.AvailabilityCache
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	push          notifications.PushSender
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	redisAddr   string
	autoConfirm bool
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Request-scoped timeout; slow handlers see ctx.Done() and bail out.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/logout", app.logoutHandler)
			r.Get("/bookings", app.listMyBookingsHandler)
			r.Post("/push-tokens", app.savePushTokenHandler)
			r.Delete("/push-tokens", app.removePushTokenHandler)
		})

		r.Route("/facilities", func(r chi.Router) {
			r.Get("/{facilityID}", app.getFacilityHandler)
			r.Get("/{facilityID}/courts", app.listCourtsHandler)
			r.Get("/{facilityID}/availability", app.availabilityHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createFacilityHandler)
				r.Post("/{facilityID}/bookings", app.createBookingHandler)

				r.Group(func(r chi.Router) {
					r.Use(app.RequireFacilityOwner)
					r.Patch("/{facilityID}", app.updateFacilityHandler)
					r.Put("/{facilityID}/hours", app.setFacilityHoursHandler)
					r.Post("/{facilityID}/photos", app.uploadFacilityPhotoHandler)
					r.Delete("/{facilityID}/photos", app.deleteFacilityPhotoHandler)
					r.Post("/{facilityID}/courts", app.createCourtHandler)
					r.Patch("/{facilityID}/courts/{courtID}/active", app.setCourtActiveHandler)
					r.Get("/{facilityID}/bookings", app.listFacilityBookingsHandler)
					r.Post("/{facilityID}/blocked-slots", app.createBlockedSlotHandler)
					r.Get("/{facilityID}/blocked-slots", app.listBlockedSlotsHandler)
					r.Delete("/{facilityID}/blocked-slots/{slotID}", app.deactivateBlockedSlotHandler)
				})
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/{bookingID}", app.getBookingHandler)
			r.Post("/{bookingID}/cancel", app.cancelBookingHandler)
			r.Post("/{bookingID}/confirm", app.confirmBookingHandler)
			r.Post("/{bookingID}/decline", app.declineBookingHandler)
			r.Post("/{bookingID}/complete", app.completeBookingHandler)
			r.Post("/{bookingID}/no-show", app.noShowBookingHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}

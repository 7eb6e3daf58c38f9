package handler

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/offerhub/offerhub-go/internal/middleware"
)

// Routes holds the handlers mounted by NewRouter.
type Routes struct {
	Authenticator middleware.Authenticator
	Offers        *OfferHandler
	Users         *AuthHandler
	Payments      *PaymentHandler
	CORSOrigins   []string
}

// NewRouter builds the HTTP surface. Offer mutations require a bearer token.
func NewRouter(rt Routes) *chi.Mux {
	r := chi.NewRouter()

	if len(rt.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.NotFound(HandleNotFound)
	r.Get("/", HandleWelcome)
	r.Get("/health", HandleHealth)

	r.Get("/offers", rt.Offers.HandleSearch)
	r.Get("/offer/{id}", rt.Offers.HandleGet)

	r.Post("/user/signup", rt.Users.HandleSignup)
	r.Post("/user/login", rt.Users.HandleLogin)

	r.Post("/payment", rt.Payments.HandlePay)

	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth(rt.Authenticator))
		r.Post("/offer/publish", rt.Offers.HandlePublish)
		r.Put("/offer/update/{id}", rt.Offers.HandleUpdate)
		r.Delete("/offer/delete/{id}", rt.Offers.HandleDelete)
	})

	return r
}


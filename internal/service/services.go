package service

import (
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/notify"
	redisx "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
	redisrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/admin"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/booking"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/fare"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/hold"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/query"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/routes"
)

type Services struct {
	Booking *booking.Service
	Holds   *hold.Service
	Query   *query.Service
	Admin   *admin.Service
	Routes  *routes.Resolver
	Fare    fare.Calculator
}

type Config struct {
	Hold        hold.Config
	Query       query.Config
	PerHopCents int64
}

func NewServices(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.TripsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	notifier notify.Notifier,
	cfg Config,
) *Services {
	resolver := routes.NewResolver(store.Catalog())
	calc := fare.NewTable(store.Fares(), fare.Flat{PerHopCents: cfg.PerHopCents})

	return &Services{
		Booking: booking.New(store, resolver, calc, cache, pubsub, notifier),
		Holds:   hold.New(store, cache, pubsub, limiter, notifier, cfg.Hold),
		Query:   query.New(store, cache, cfg.Query),
		Admin:   admin.New(store),
		Routes:  resolver,
		Fare:    calc,
	}
}

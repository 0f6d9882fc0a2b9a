// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reelcircle/reelcircle/internal/app/content"
	auditlogfeature "github.com/reelcircle/reelcircle/internal/app/features/auditlog"
	healthfeature "github.com/reelcircle/reelcircle/internal/app/features/health"
	modfeature "github.com/reelcircle/reelcircle/internal/app/features/moderation"
	reviewsfeature "github.com/reelcircle/reelcircle/internal/app/features/reviews"
	"github.com/reelcircle/reelcircle/internal/app/moderation"
	"github.com/reelcircle/reelcircle/internal/app/ratings"
	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	commentstore "github.com/reelcircle/reelcircle/internal/app/store/comments"
	groupstore "github.com/reelcircle/reelcircle/internal/app/store/groups"
	grouppoststore "github.com/reelcircle/reelcircle/internal/app/store/groupposts"
	moviestore "github.com/reelcircle/reelcircle/internal/app/store/movies"
	newspoststore "github.com/reelcircle/reelcircle/internal/app/store/newsposts"
	newsroomstore "github.com/reelcircle/reelcircle/internal/app/store/newsrooms"
	reportstore "github.com/reelcircle/reelcircle/internal/app/store/reports"
	reviewstore "github.com/reelcircle/reelcircle/internal/app/store/reviews"
	userstore "github.com/reelcircle/reelcircle/internal/app/store/users"
	warningstore "github.com/reelcircle/reelcircle/internal/app/store/warnings"
	"github.com/reelcircle/reelcircle/internal/app/system/auditlog"
	"github.com/reelcircle/reelcircle/internal/app/system/auth"
	"github.com/reelcircle/reelcircle/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// core bundles the services the HTTP features sit on.
type core struct {
	ratings *ratings.Service
	engine  *moderation.Engine
	audit   *audit.Store
}

// buildCore wires stores into the rating service, the content registry and
// the moderation engine. The rating service is the review source so every
// review deletion, moderator or author, recomputes the movie average.
func buildCore(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) core {
	users := userstore.New(db)
	reviews := reviewstore.New(db)
	movies := moviestore.New(db)

	svc := ratings.New(reviews, movies, users, logger)

	registry := content.New(
		svc,
		commentstore.New(db).Source(),
		grouppoststore.New(db).Source(),
		newspoststore.New(db).Source(),
	)

	events := audit.New(db)
	auditLog := auditlog.New(events, logger, auditlog.Config{
		Moderation: appCfg.AuditLogModeration,
		Admin:      appCfg.AuditLogAdmin,
	})

	engine := moderation.New(moderation.Deps{
		Users:     users,
		Reports:   reportstore.New(db),
		Warnings:  warningstore.New(db),
		Groups:    groupstore.New(db),
		Newsrooms: newsroomstore.New(db),
		Content:   registry,
	}, auditLog, logger)

	return core{ratings: svc, engine: engine, audit: events}
}

// BuildHandler constructs the root HTTP handler for reelcircle.
//
// Every route except /health and /metrics needs a signed-in actor, taken
// from the session cookie issued by the sign-in service. LoadSessionUser
// refreshes the actor from the users collection on each request so role
// changes and bans take effect immediately.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	c := buildCore(deps.MongoDatabase, appCfg, logger)

	r := chi.NewRouter()
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", promhttp.Handler())

	var flagLimiter *ratelimit.Limiter
	if appCfg.FlagRateLimit > 0 {
		if deps.Workers == nil {
			return nil, errors.New("bootstrap: no worker registry for the flag limiter sweep")
		}
		flagLimiter = ratelimit.New(appCfg.FlagRateLimit, appCfg.FlagRateWindow)
		flagLimiter.Start(appCfg.FlagRateWindow)
		deps.Workers.Add(flagLimiter.Stop)
	}

	modHandler := modfeature.NewHandler(c.engine, logger)
	r.Mount("/reports", modfeature.ReportRoutes(modHandler, sessionMgr, flagLimiter))
	r.Mount("/users", modfeature.UserRoutes(modHandler, sessionMgr))
	r.Mount("/content", modfeature.ContentRoutes(modHandler, sessionMgr))

	reviewsHandler := reviewsfeature.NewHandler(c.ratings, logger)
	r.Mount("/reviews", reviewsfeature.Routes(reviewsHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(c.audit, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}

// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-vault/vault-bank/internal/accountdelivery"
	"github.com/go-vault/vault-bank/internal/accountrepo"
	"github.com/go-vault/vault-bank/internal/accountservice"
	"github.com/go-vault/vault-bank/internal/beneficiarydelivery"
	"github.com/go-vault/vault-bank/internal/beneficiaryrepo"
	"github.com/go-vault/vault-bank/internal/beneficiaryservice"
	"github.com/go-vault/vault-bank/internal/middleware"
	"github.com/go-vault/vault-bank/internal/sessiondelivery"
	"github.com/go-vault/vault-bank/internal/sessionrepo"
	"github.com/go-vault/vault-bank/internal/sessionservice"
	"github.com/go-vault/vault-bank/internal/transferdelivery"
	"github.com/go-vault/vault-bank/internal/transferrepo"
	"github.com/go-vault/vault-bank/internal/transferservice"
	"github.com/go-vault/vault-bank/internal/userdelivery"
	"github.com/go-vault/vault-bank/internal/userrepo"
	"github.com/go-vault/vault-bank/internal/userservice"
	"github.com/go-vault/vault-bank/pkg/configpkg"
	"github.com/go-vault/vault-bank/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)
	beneficiaryRepo := beneficiaryrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo)
	transferService := transferservice.New(transferRepo, accountService)
	beneficiaryService := beneficiaryservice.New(beneficiaryRepo)
	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)

	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	userHandler := userdelivery.NewHandler(userService, accountService, sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)
	beneficiaryHandler := beneficiarydelivery.NewHandler(beneficiaryService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.GET("/accounts/me", accountHandler.Get)

	authRoutes.POST("/transfers", transferHandler.Create)
	authRoutes.GET("/transactions", transferHandler.List)

	authRoutes.POST("/beneficiaries", beneficiaryHandler.Add)
	authRoutes.GET("/beneficiaries", beneficiaryHandler.List)
	authRoutes.DELETE("/beneficiaries/:id", beneficiaryHandler.Remove)

	adminRoutes := engine.Group("/admin").
		Use(middleware.AuthMiddleware(sessionService.TokenMaker)).
		Use(middleware.AdminMiddleware(userService))

	adminRoutes.GET("/accounts", accountHandler.List)
	adminRoutes.PATCH("/accounts/:number/balance", accountHandler.SetBalance)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accnumber", accountdelivery.ValidAccountNumber)
		if err != nil {
			return nil, errors.New("cannot register account number validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}

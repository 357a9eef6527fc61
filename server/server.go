package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/pcea-st-andrews/stands-ims/server/auth"
	"github.com/pcea-st-andrews/stands-ims/server/auth/key"
	"github.com/pcea-st-andrews/stands-ims/server/logger"
	"github.com/pcea-st-andrews/stands-ims/server/models"
	"github.com/pcea-st-andrews/stands-ims/server/twilio"
	"github.com/pcea-st-andrews/stands-ims/server/work"
	"github.com/pcea-st-andrews/stands-ims/shared"
	"github.com/spf13/viper"
)

type RequestContextKey string

type DecodedJWT struct {
	Claims   *auth.StandsTokenClaims
	ErrorMsg string
}

var (
	logg = logger.NewLogger()

	validate      *validator.Validate
	authKeyPair   *key.KeyPair
	workerAdapter *work.WorkerPoolAdapter
	smsClient     *twilio.ClientWrapper
	serverConfig  shared.ServerConfig
	dbRootDir     string
)

// Start brings up the records API: db, worker pool & http listener.
func Start(config *viper.Viper, isDevEnv bool) {
	var err error

	validate = validator.New()
	if err := RegisterValidators(validate); err != nil {
		logg.Panic(err)
	}

	serverConfig = parseServerConfig(config)

	authKeyPair, err = key.NewKeyPairFromRSAPrivateKeyPem(serverConfig.Stands.PrivateKeyPem)
	if err != nil {
		logg.Panic(err)
	}

	dbRootDir = appRootDir(isDevEnv)
	err = models.AutoMigrate(serverConfig.Sqlite.PassPhrase, dbRootDir)
	if err != nil {
		logg.Panic(err)
	}

	smsClient = twilio.NewClient(serverConfig.Twilio, isDevEnv)

	workerAdapter = work.NewWorkerAdapter(serverConfig.Stands.Cron.TimeZone)
	registerJobHandlers(workerAdapter)
	enqueueJobs(workerAdapter)
	workerAdapter.Start()

	listenAndServe(newRouter(), serverConfig.Stands.Listener.Port)
}

func newRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(loggingMiddleware, initialContextMiddleware)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/login", logIn).Methods("POST")
	router.HandleFunc("/jwks", jwks).Methods("GET")

	// Account management. The very first account can be created without
	// a token; after that it's admin-only.
	usersRouter := router.PathPrefix("/users").Subrouter()
	usersRouter.Use(adminRouteMiddleware)
	usersRouter.HandleFunc("", createUser).Methods("POST")

	userRouter := router.PathPrefix("/users/{uid}").Subrouter()
	userRouter.Use(protectedRouteMiddleware)
	userRouter.HandleFunc("", findUser).Methods("GET")
	userRouter.HandleFunc("", updateUser).Methods("PUT")
	userRouter.HandleFunc("", deleteUser).Methods("DELETE")

	// Domain routes, all behind auth. Static paths registered before
	// the '{username}' ones so mux matches them first.
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(protectedRouteMiddleware)

	protected.HandleFunc("/people/", peopleIndex).Methods("GET")
	protected.HandleFunc("/people/add/", createPerson).Methods("POST")
	protected.HandleFunc("/people/add/adult/", createAdult).Methods("POST")
	protected.HandleFunc("/people/add/child/", createChild).Methods("POST")
	protected.HandleFunc("/people/register/self/", registerSelf).Methods("POST")
	protected.HandleFunc("/people/relationships/", relationshipsIndex).Methods("GET")
	protected.HandleFunc("/people/relationships/add/", createRelationship).Methods("POST")
	protected.HandleFunc("/people/relationships/add/parent-child/", createParentChildRelationship).Methods("POST")
	protected.HandleFunc("/people/{username}/", findPerson).Methods("GET")
	protected.HandleFunc("/people/{username}/update/", updatePerson).Methods("PUT")

	protected.HandleFunc("/records/temperature/", temperatureRecordsIndex).Methods("GET")
	protected.HandleFunc("/records/temperature/{username}/add/", createTemperatureRecord).Methods("POST")

	adminRouter := router.PathPrefix("/jobs").Subrouter()
	adminRouter.Use(adminRouteMiddleware)
	adminRouter.HandleFunc("/stats", jobsStats).Methods("GET")

	return router
}

func listenAndServe(router *mux.Router, port int) {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%v", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logg.Infof("Stands-IMS server is listening on port:%v...", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal(err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logg.Info("Shutting down server...")
	workerAdapter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logg.Error(err)
	}
}

func parseServerConfig(config *viper.Viper) shared.ServerConfig {
	parsed := shared.ServerConfig{}

	if err := config.Unmarshal(&parsed); err != nil {
		logg.Panicf("unable to parse server config: %v", err)
	}

	if err := validate.Struct(parsed); err != nil {
		logg.Panicf("invalid server config: %v", err)
	}

	return parsed
}

func appRootDir(isDevEnv bool) string {
	if isDevEnv {
		dir, err := os.Getwd()
		if err != nil {
			logg.Panic(err)
		}
		return dir
	}

	dir, err := os.UserHomeDir()
	if err != nil {
		logg.Panic(err)
	}

	return dir
}

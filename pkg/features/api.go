package featuresApi

import (
	"net/http"

	"github.com/Gamequic/DigCardBackend/pkg/features/profiles"
	profileservice "github.com/Gamequic/DigCardBackend/pkg/features/profiles/service"
	"github.com/Gamequic/DigCardBackend/pkg/features/system"
	systemservice "github.com/Gamequic/DigCardBackend/pkg/features/system/service"
	"github.com/Gamequic/DigCardBackend/utils"
	"github.com/Gamequic/DigCardBackend/utils/middlewares"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Dependencies struct {
	Profiles *profileservice.Service
	System   *systemservice.Service
	Logger   *zap.Logger
}

// RegisterSubRoutes mounts every feature. Fixed paths first, the profile
// catch-all last.
func RegisterSubRoutes(router *mux.Router, deps Dependencies) {
	system.RegisterSubRoutes(router, deps.System)
	profiles.RegisterSubRoutes(router, deps.Profiles)
}

// NewHandler returns the full HTTP stack: access log, CORS, error recovery
// and the feature routes.
func NewHandler(cors utils.CORSConfig, deps Dependencies) http.Handler {
	// Keys may hold an escaped "/", so routes match the raw path and the
	// handlers unescape their vars.
	mainRouter := mux.NewRouter().UseEncodedPath()
	mainRouter.Use(middlewares.ErrorHandler(deps.Logger))
	mainRouter.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Route not found"})
	})
	mainRouter.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
	})

	RegisterSubRoutes(mainRouter, deps)

	// CORS
	corsObj := handlers.CORS(
		handlers.AllowedOrigins(cors.AllowedOrigins),
		handlers.AllowedMethods(cors.AllowedMethods),
		handlers.AllowedHeaders([]string{"Content-Type", middlewares.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middlewares.RequestIDHeader}),
		handlers.AllowCredentials(),
	)

	return middlewares.LoggingHandler(deps.Logger)(corsObj(mainRouter))
}

package system

import (
	"context"
	"net/http"
	"time"

	systemservice "github.com/Gamequic/DigCardBackend/pkg/features/system/service"
	"github.com/Gamequic/DigCardBackend/utils"

	"github.com/gorilla/mux"
)

const healthTimeout = 2 * time.Second

func checkHealth(service *systemservice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		health, ok := service.Health(ctx)
		if !ok {
			utils.WriteJSON(w, http.StatusServiceUnavailable, health)
			return
		}
		utils.WriteJSON(w, http.StatusOK, health)
	}
}

// Register function

func RegisterSubRoutes(router *mux.Router, service *systemservice.Service) {
	router.HandleFunc("/checkhealth", checkHealth(service)).Methods("GET")
}

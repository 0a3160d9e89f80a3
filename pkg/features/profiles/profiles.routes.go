package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"

	profileservice "github.com/Gamequic/DigCardBackend/pkg/features/profiles/service"
	profilestruct "github.com/Gamequic/DigCardBackend/pkg/features/profiles/struct"
	"github.com/Gamequic/DigCardBackend/utils"
	"github.com/Gamequic/DigCardBackend/utils/middlewares"

	"github.com/gorilla/mux"
)

type handler struct {
	service *profileservice.Service
}

// CRUD

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req profilestruct.SaveProfile
	/*
		Payload already checked by middlewares.ValidatorHandler
	*/
	json.NewDecoder(r.Body).Decode(&req)

	profileKey, err := h.service.Create(r.Context(), req)
	if err != nil {
		fail(err)
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{
		"profileKey": profileKey,
		"message":    "Profile saved successfully",
	})
}

func (h *handler) find(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.Find(r.Context())
	if err != nil {
		fail(err)
	}

	utils.WriteJSON(w, http.StatusOK, profiles)
}

func (h *handler) findOne(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, pathVar(r, "profileKey"))
}

func (h *handler) findByName(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, pathVar(r, "profileName"))
}

func (h *handler) writeProfile(w http.ResponseWriter, r *http.Request, profileKey string) {
	profile, err := h.service.FindOne(r.Context(), profileKey)
	if err != nil {
		fail(err)
	}

	utils.WriteJSON(w, http.StatusOK, profile)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var req profilestruct.UpdateProfile
	json.NewDecoder(r.Body).Decode(&req)

	profile, err := h.service.Update(r.Context(), pathVar(r, "profileKey"), req)
	if err != nil {
		fail(err)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), pathVar(r, "profileKey")); err != nil {
		fail(err)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Profile deleted successfully",
	})
}

// pathVar returns the unescaped route variable. The router matches on the
// encoded path, so "ac%2Fdc-fan" arrives here as one segment.
func pathVar(r *http.Request, name string) string {
	value, err := url.PathUnescape(mux.Vars(r)[name])
	if err != nil {
		panic(middlewares.StoreError{Code: http.StatusBadRequest, Message: "Invalid profile key"})
	}
	return value
}

// fail ends the request through middlewares.ErrorHandler.
func fail(err error) {
	switch {
	case errors.Is(err, profileservice.ErrNotFound):
		panic(middlewares.StoreError{Code: http.StatusNotFound, Message: "Profile not found", IsStore: true})
	case errors.Is(err, profileservice.ErrInvalid):
		panic(middlewares.StoreError{Code: http.StatusBadRequest, Message: err.Error()})
	case errors.Is(err, profileservice.ErrRejected):
		panic(middlewares.StoreError{Code: http.StatusBadRequest, Message: err.Error(), IsStore: true})
	default:
		panic(middlewares.StoreError{Code: http.StatusInternalServerError, Message: err.Error(), IsStore: true})
	}
}

// Register function

// RegisterSubRoutes mounts the profile routes. The catch-all /{profileKey}
// goes last so fixed paths registered before it keep priority.
func RegisterSubRoutes(router *mux.Router, service *profileservice.Service) {
	h := &handler{service: service}

	apiRouter := router.PathPrefix("/api").Subrouter()

	// ValidatorHandler - Create
	saveValidator := apiRouter.NewRoute().Subrouter()
	saveValidator.Use(middlewares.ValidatorHandler(reflect.TypeOf(profilestruct.SaveProfile{})))
	saveValidator.HandleFunc("/save-profile", h.create).Methods("POST")

	// ValidatorHandler - Update
	updateValidator := apiRouter.NewRoute().Subrouter()
	updateValidator.Use(middlewares.ValidatorHandler(reflect.TypeOf(profilestruct.UpdateProfile{})))
	updateValidator.HandleFunc("/update-profile/{profileKey}", h.update).Methods("PUT")

	apiRouter.HandleFunc("/profiles/{profileKey}", h.delete).Methods("DELETE")

	router.HandleFunc("/profile/{profileName}", h.findByName).Methods("GET")
	router.HandleFunc("/", h.find).Methods("GET")
	router.HandleFunc("/{profileKey}", h.findOne).Methods("GET")
}

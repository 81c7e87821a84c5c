package restserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/chrissnell/myweather/internal/favorites"
	"github.com/chrissnell/myweather/internal/storage"
	"github.com/chrissnell/myweather/pkg/units"
	"github.com/gorilla/mux"
)

// favoriteView is a saved location with its temperature in the session's
// unit system.
type favoriteView struct {
	favorites.Entry
	Key         string `json:"key"`
	DisplayTemp int    `json:"display_temp"`
	TempSymbol  string `json:"temperature_symbol"`
}

type favoritesResponse struct {
	Favorites    []favoriteView `json:"favorites"`
	Saved        *bool          `json:"saved,omitempty"`
	StorageError bool           `json:"storage_error,omitempty"`
}

func (h *Handlers) favoritesResponse(entries []favorites.Entry, unit units.System) favoritesResponse {
	svc := h.controller.services.Favorites
	views := make([]favoriteView, 0, len(entries))
	for _, e := range entries {
		views = append(views, favoriteView{
			Entry:       e,
			Key:         svc.Key(e),
			DisplayTemp: units.ToDisplayTemperature(float64(e.Temp), unit),
			TempSymbol:  unit.TemperatureSymbol(),
		})
	}
	return favoritesResponse{Favorites: views}
}

// sendFavorites writes the list. Storage failures are reported in the body
// with the list as it was before the failed operation.
func (h *Handlers) sendFavorites(w http.ResponseWriter, r *http.Request, entries []favorites.Entry, saved *bool, err error) {
	if err != nil && !storage.IsStorageError(err) {
		h.sendError(w, r, http.StatusInternalServerError, "Unable to update favorites", err)
		return
	}

	resp := h.favoritesResponse(entries, sessionFromContext(r.Context()).Units())
	resp.Saved = saved
	resp.StorageError = err != nil
	h.sendJSON(w, r, resp)
}

// GetFavorites lists the saved locations
func (h *Handlers) GetFavorites(w http.ResponseWriter, r *http.Request) {
	entries, err := h.controller.services.Favorites.List(r.Context())
	h.sendFavorites(w, r, entries, nil, err)
}

// AddFavorite saves a location. The temperature in the body is Fahrenheit.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var entry favorites.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.sendError(w, r, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		h.sendError(w, r, http.StatusBadRequest, "name is required", nil)
		return
	}
	if !entry.Query().ByZip() && !entry.Query().ByCoordinates() {
		h.sendError(w, r, http.StatusBadRequest, "a zip code or lat/lon is required", nil)
		return
	}

	entries, err := h.controller.services.Favorites.Add(r.Context(), entry)
	if err == nil {
		h.markCurrent(r, h.controller.services.Favorites.Key(entry), true)
	}
	h.sendFavorites(w, r, entries, nil, err)
}

// DeleteFavorite removes the location with the given key
func (h *Handlers) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]

	entries, err := h.controller.services.Favorites.Remove(r.Context(), key)
	if err == nil {
		h.markCurrent(r, key, false)
	}
	h.sendFavorites(w, r, entries, nil, err)
}

// ToggleCurrentFavorite saves or removes the location the session is showing
func (h *Handlers) ToggleCurrentFavorite(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	current, err := h.controller.services.Lookups.Current(sess)
	if err != nil {
		h.sendLookupError(w, r, err)
		return
	}

	entries, saved, err := h.controller.services.Favorites.Toggle(r.Context(), current.FavoriteEntry())
	if entries == nil && err != nil && storage.IsStorageError(err) {
		// The list could not be read; the saved flag is unchanged.
		saved = current.IsSaved
	}
	sess.Tracker().SetSaved(saved)
	h.sendFavorites(w, r, entries, &saved, err)
}

// markCurrent updates the saved flag of the session's report if it shows the
// location with the given key.
func (h *Handlers) markCurrent(r *http.Request, key string, saved bool) {
	sess := sessionFromContext(r.Context())
	current := sess.Tracker().Current()
	if current != nil && h.controller.services.Favorites.Key(current.FavoriteEntry()) == key {
		sess.Tracker().SetSaved(saved)
	}
}

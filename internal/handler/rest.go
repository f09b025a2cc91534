package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/library-inventory/internal/inventory"
	"github.com/vyrodovalexey/library-inventory/internal/model"
)

// Version is the application version.
const Version = "1.0.0"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// addRequest is implemented by the book and journal creation payloads.
type addRequest interface {
	Validate() error
	Item() model.Item
}

// RESTHandler handles REST API requests for the inventory.
type RESTHandler struct {
	store  *inventory.Store
	events *WebSocketHandler
	logger *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(store *inventory.Store, events *WebSocketHandler, logger *zap.Logger) *RESTHandler {
	updateItemGauges(store.Stats())
	return &RESTHandler{
		store:  store,
		events: events,
		logger: logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/items", h.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/items/books", h.AddBook).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/items/journals", h.AddJournal).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/items/{id:[0-9]+}", h.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/items/{id:[0-9]+}", h.RemoveItem).Methods(http.MethodDelete)
	router.HandleFunc("/api/v1/items/{id:[0-9]+}/toggle", h.ToggleBorrow).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/stats", h.GetStats).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
	}
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse("", response))
}

// ReadyCheck handles GET /ready requests.
func (h *RESTHandler) ReadyCheck(w http.ResponseWriter, _ *http.Request) {
	response := ReadyResponse{
		Status: "ready",
	}
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse("", response))
}

// ListItems handles GET /api/v1/items requests. When the q query parameter
// is present the listing is filtered to items whose title contains the
// keyword, case-insensitively; an empty keyword matches everything.
func (h *RESTHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		items []model.Item
		err   error
	)
	if r.URL.Query().Has("q") {
		items, err = h.store.Search(ctx, r.URL.Query().Get("q"))
	} else {
		items, err = h.store.ListAll(ctx)
	}
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to retrieve items")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse("", model.RecordsOf(items)))
}

// GetItem handles GET /api/v1/items/{id} requests.
func (h *RESTHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, inventory.MsgNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse("", item.Record()))
}

// AddBook handles POST /api/v1/items/books requests.
func (h *RESTHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var input model.AddBookRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.addItem(w, r, &input)
}

// AddJournal handles POST /api/v1/items/journals requests.
func (h *RESTHandler) AddJournal(w http.ResponseWriter, r *http.Request) {
	var input model.AddJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.addItem(w, r, &input)
}

// addItem validates the payload and inserts the resulting item.
func (h *RESTHandler) addItem(w http.ResponseWriter, r *http.Request, input addRequest) {
	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := input.Item()
	if err := h.store.Add(r.Context(), item); err != nil {
		h.handleStoreError(w, err, "add item")
		return
	}

	h.broadcast(model.EventItemAdded, item)
	h.writeJSON(w, http.StatusCreated, model.NewSuccessResponse(inventory.MsgItemAdded, item.Record()))
}

// RemoveItem handles DELETE /api/v1/items/{id} requests.
func (h *RESTHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.store.Remove(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, "remove item")
		return
	}

	h.broadcast(model.EventItemRemoved, item)
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(inventory.MsgItemRemoved, item.Record()))
}

// ToggleBorrow handles POST /api/v1/items/{id}/toggle requests.
func (h *RESTHandler) ToggleBorrow(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	borrowed, err := h.store.ToggleBorrow(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, "toggle borrow")
		return
	}

	item, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, inventory.MsgNotFound)
		return
	}

	h.broadcast(model.EventItemToggled, item)
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(inventory.BorrowMessage(borrowed), item.Record()))
}

// GetStats handles GET /api/v1/stats requests.
func (h *RESTHandler) GetStats(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse("", h.store.Stats()))
}

// broadcast refreshes the inventory gauges and pushes an event to
// connected WebSocket clients after a successful mutation.
func (h *RESTHandler) broadcast(eventType string, item model.Item) {
	stats := h.store.Stats()
	updateItemGauges(stats)

	if h.events != nil {
		h.events.Broadcast(model.NewEvent(eventType, item, stats))
	}
}

// handleStoreError handles inventory errors and writes appropriate HTTP responses.
func (h *RESTHandler) handleStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		h.writeError(w, http.StatusNotFound, inventory.MsgNotFound)
	case errors.Is(err, inventory.ErrDuplicateID):
		h.writeError(w, http.StatusConflict, inventory.MsgDuplicateID)
	case errors.Is(err, inventory.ErrNilItem):
		h.writeError(w, http.StatusBadRequest, "invalid request body")
	default:
		h.logger.Error("inventory operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, inventory.MsgSaveFailed)
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.NewErrorResponse[any](message))
}

// itemID extracts the numeric item id from the request path.
func itemID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

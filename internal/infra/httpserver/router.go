package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appbatch "github.com/mindvault/curator/internal/application/batch"
	"github.com/mindvault/curator/internal/application/classify"
	appingest "github.com/mindvault/curator/internal/application/ingest"
	domai "github.com/mindvault/curator/internal/domain/ai"
	domain "github.com/mindvault/curator/internal/domain/items"
	"github.com/mindvault/curator/internal/domain/taxonomy"
	"github.com/mindvault/curator/internal/domain/videos"
)

const maxUploadBytes = 32 << 20

type Router struct {
	ingestSvc *appingest.Service
	batchSvc  *appbatch.Service
	tax       *taxonomy.Taxonomy
}

func NewRouter(ingestSvc *appingest.Service, batchSvc *appbatch.Service, tax *taxonomy.Taxonomy) http.Handler {
	r := &Router{ingestSvc: ingestSvc, batchSvc: batchSvc, tax: tax}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/items/file", r.wrap(r.handleIngestFile))
		rt.Post("/items/video", r.wrap(r.handleIngestVideo))
		rt.Post("/collections", r.wrap(r.handleProcessCollection))
		rt.Get("/items", r.wrap(r.handleList))
		rt.Get("/items/{id}", r.wrap(r.handleGet))
		rt.Post("/items/{id}/confirm", r.wrap(r.handleConfirm))
		rt.Post("/items/{id}/reclassify", r.wrap(r.handleReclassify))
		rt.Get("/items/{id}/original", r.wrap(r.handleOriginal))
		rt.Get("/items/{id}/audit", r.wrap(r.handleAuditLog))
		rt.Get("/taxonomy", r.wrap(r.handleTaxonomy))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound),
				errors.Is(err, domain.ErrBlobNotFound),
				errors.Is(err, taxonomy.ErrNotFound),
				errors.Is(err, videos.ErrVideoNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, domain.ErrValidationFailed):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, domain.ErrStorageUnavailable):
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			default:
				var cerr *classify.ClassificationError
				if errors.As(err, &cerr) {
					http.Error(w, cerr.Error(), http.StatusBadGateway)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/items/file (multipart, field "file")
func (r *Router) handleIngestFile(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidationFailed, err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: missing file field", domain.ErrValidationFailed)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return err
	}

	it, err := r.ingestSvc.IngestFile(req.Context(), appingest.IngestFileCommand{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, it)
}

// POST /v1/items/video
// Body: {"video_id": "<id>"}
func (r *Router) handleIngestVideo(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		VideoID string `json:"video_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.VideoID == "" {
		return fmt.Errorf("%w: video_id is required", domain.ErrValidationFailed)
	}

	it, err := r.ingestSvc.IngestVideo(req.Context(), body.VideoID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, it)
}

// POST /v1/collections
// Body: {"playlist_id": "<id>"}. Returns the accepted count right away;
// members are classified in the background, progress via GET /v1/items.
func (r *Router) handleProcessCollection(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		PlaylistID string `json:"playlist_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.PlaylistID == "" {
		return fmt.Errorf("%w: playlist_id is required", domain.ErrValidationFailed)
	}

	accepted, err := r.batchSvc.ProcessPlaylist(req.Context(), body.PlaylistID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusAccepted, map[string]any{
		"accepted": accepted,
		"status":   "processing",
	})
}

// GET /v1/items?pillar=&status=&q=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	list, err := r.ingestSvc.List(req.Context(), domain.Filter{
		PillarID: q.Get("pillar"),
		Status:   domain.Status(q.Get("status")),
		Search:   q.Get("q"),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/items/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	it, err := r.ingestSvc.Get(req.Context(), domain.ItemID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, it)
}

// POST /v1/items/{id}/confirm
func (r *Router) handleConfirm(w http.ResponseWriter, req *http.Request) error {
	it, err := r.ingestSvc.Confirm(req.Context(), domain.ItemID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, it)
}

// POST /v1/items/{id}/reclassify
// Body: {"pillar_id": "P3", "topic_id": "P3.05"}
func (r *Router) handleReclassify(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		PillarID string `json:"pillar_id"`
		TopicID  string `json:"topic_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	it, err := r.ingestSvc.Reclassify(req.Context(), domain.ItemID(chi.URLParam(req, "id")), body.PillarID, body.TopicID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, it)
}

// GET /v1/items/{id}/original
func (r *Router) handleOriginal(w http.ResponseWriter, req *http.Request) error {
	data, it, err := r.ingestSvc.FetchOriginal(req.Context(), domain.ItemID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	contentType := it.MediaType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", it.OriginalName))
	_, err = w.Write(data)
	return err
}

// GET /v1/items/{id}/audit
func (r *Router) handleAuditLog(w http.ResponseWriter, req *http.Request) error {
	entries, err := r.ingestSvc.AuditLog(req.Context(), domain.ItemID(chi.URLParam(req, "id")))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, entries)
}

// GET /v1/taxonomy
func (r *Router) handleTaxonomy(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"version": r.tax.Version(),
		"pillars": r.tax.Pillars(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

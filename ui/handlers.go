package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/core"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/domain/dataset"
	apperrors "github.com/NIHAL-JAGDALE/CHEMVIZ/internal/errors"
	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/ingest"
)

// listLimit matches the retained-history window shown to clients
const listLimit = 5

type contextKey string

const ownerKey contextKey = "owner"

// requireOwner extracts the caller identity installed by the upstream
// gateway and rejects requests without one.
func (a *App) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, err := core.ParseOwnerID(r.Header.Get("X-User-ID"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing caller identity")
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFrom(r *http.Request) core.OwnerID {
	owner, _ := r.Context().Value(ownerKey).(core.OwnerID)
	return owner
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload ingests a multipart file upload and returns the freshly
// computed summary.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	ds, err := a.ingest.Ingest(r.Context(), ingest.Upload{
		Owner:    ownerFrom(r),
		Filename: header.Filename,
		File:     file,
	})
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"dataset_id": ds.ID.String(),
		"filename":   ds.Filename,
		"timestamp":  ds.UploadedAt,
		"summary":    ds.Summary,
	})
}

// handleList returns the caller's retained datasets, newest first
func (a *App) handleList(w http.ResponseWriter, r *http.Request) {
	datasets, err := a.repo.ListByOwner(r.Context(), ownerFrom(r), listLimit)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	type listItem struct {
		ID         string    `json:"id"`
		Filename   string    `json:"filename"`
		UploadedAt time.Time `json:"uploaded_at"`
		TotalCount *int      `json:"total_count"`
	}
	items := make([]listItem, 0, len(datasets))
	for _, ds := range datasets {
		item := listItem{
			ID:         ds.ID.String(),
			Filename:   ds.Filename,
			UploadedAt: ds.UploadedAt,
		}
		if ds.Summary != nil {
			count := ds.Summary.TotalCount
			item.TotalCount = &count
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *App) handleGet(w http.ResponseWriter, r *http.Request) {
	ds, ok := a.loadDataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// handleData re-decodes the stored file and returns the raw rows
func (a *App) handleData(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseDatasetID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dataset id")
		return
	}
	tbl, err := a.ingest.RawData(r.Context(), id, ownerFrom(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": tbl.ColumnNames(),
		"data":    tbl.Rows(),
	})
}

// handleChart renders one of the summary charts as PNG. The kind query
// parameter selects distribution (default) or averages.
func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	ds, ok := a.loadDataset(w, r)
	if !ok {
		return
	}
	if ds.Summary == nil {
		writeError(w, http.StatusNotFound, "dataset has no summary")
		return
	}

	var png []byte
	var err error
	switch kind := r.URL.Query().Get("kind"); kind {
	case "", "distribution":
		png, err = a.renderer.DistributionChart(ds.Summary.TypeDistribution)
	case "averages":
		png, err = a.renderer.AveragesChart(ds.Summary.Averages)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chart kind %q", kind))
		return
	}
	if err != nil {
		writeCoreError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleReport streams the composed PDF report as an attachment
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	ds, ok := a.loadDataset(w, r)
	if !ok {
		return
	}
	if ds.Summary == nil {
		writeError(w, http.StatusNotFound, "dataset has no summary")
		return
	}

	doc, err := a.composer.Compose(ds, ds.Summary)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	base := strings.TrimSuffix(ds.Filename, filepath.Ext(ds.Filename))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"_report.pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (a *App) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseDatasetID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dataset id")
		return
	}
	if err := a.ingest.Delete(r.Context(), id, ownerFrom(r)); err != nil {
		writeCoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) loadDataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	id, err := core.ParseDatasetID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dataset id")
		return nil, false
	}
	ds, err := a.repo.GetByID(r.Context(), id, ownerFrom(r))
	if err != nil {
		writeCoreError(w, err)
		return nil, false
	}
	return ds, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeCoreError maps domain errors onto HTTP statuses and stable error
// codes so clients can branch without parsing messages.
func writeCoreError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	status := statusFor(apperrors.GetCode(appErr))
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
	}
	writeJSON(w, status, map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

// toAppError translates domain sentinels into coded application errors
func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, core.ErrDecode):
		return apperrors.New(apperrors.CodeDecodeError, err.Error())
	case errors.Is(err, core.ErrEmptyInput):
		return apperrors.New(apperrors.CodeEmptyInput, err.Error())
	case errors.Is(err, core.ErrNoColumns):
		return apperrors.New(apperrors.CodeNoColumns, err.Error())
	case errors.Is(err, core.ErrInvalidUpload):
		return apperrors.InvalidInput(err.Error())
	case errors.Is(err, core.ErrChartRender):
		return apperrors.New(apperrors.CodeChartRender, "chart could not be rendered")
	case core.IsNotFoundError(err):
		return apperrors.NotFound("dataset")
	default:
		return apperrors.InternalError("an internal error occurred")
	}
}

func statusFor(code string) int {
	switch code {
	case apperrors.CodeDecodeError, apperrors.CodeEmptyInput,
		apperrors.CodeNoColumns, apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/mapcase/internal/outline"
	"github.com/dgallion1/mapcase/internal/pipeline"
	"github.com/dgallion1/mapcase/internal/topic"
)

// handlePreview converts synchronously and returns the records as JSON
// without writing a workbook.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	p, err := s.requestProfile(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, data, status, err := s.readUpload(file, header)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	wb, err := pipeline.ReadWorkbook(data, filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sh, err := wb.FindSheet(p.Sheet)
	if err != nil {
		var nf *outline.SheetNotFoundError
		if errors.As(err, &nf) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{
				"error":  err.Error(),
				"sheets": wb.SheetTitles(),
			})
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	res, err := pipeline.Aggregate(sh, p)
	if err != nil {
		var mt *topic.MalformedTopicError
		if errors.As(err, &mt) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{
				"error": err.Error(),
				"label": mt.Label,
			})
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"sheet":    sh.Title,
		"sheets":   wb.SheetTitles(),
		"count":    res.Len(),
		"records":  res.Records,
		"groups":   res.Groups,
	})
}

package httpserver

import (
	"errors"
	"net/http"
)

const uploadField = "image"

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.UploadMaxBytes+maxRequestBody)
	if err := r.ParseMultipartForm(s.cfg.UploadMaxBytes); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Image too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "No files were uploaded.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "No files were uploaded.")
		return
	}
	defer file.Close()

	if header.Size > s.cfg.UploadMaxBytes {
		s.respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Image too large")
		return
	}

	result, err := s.uploader.Upload(r.Context(), file, header.Filename)
	if err != nil {
		s.respondServiceError(w, r, err, "upload image")
		return
	}
	s.respondJSON(w, http.StatusOK, uploadResponse{URL: result.URL})
}

package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// hashToken creates a SHA256 hash of a token so it is never compared or held in plain text
func hashToken(token string) string {
	h := sha256.New()
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint. The service is ready once a snapshot is in service.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	info := h.prediction.SnapshotInfo()
	ready := info.Version != ""

	body := map[string]interface{}{
		"ready":    ready,
		"snapshot": info,
	}
	if h.reloads != nil {
		body["reloadQueueDepth"] = h.reloads.QueueDepth()
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, body)
}

// AdminAuthMiddleware validates the admin token
func (h *Handler) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminTokenHash == "" {
			h.errorResponse(w, http.StatusForbidden, "Admin endpoints are disabled")
			return
		}

		token := r.Header.Get("X-Admin-Token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			h.errorResponse(w, http.StatusUnauthorized, "Missing admin token")
			return
		}

		if subtle.ConstantTimeCompare([]byte(hashToken(token)), []byte(h.adminTokenHash)) != 1 {
			h.logger.Warnw("Rejected admin request", "remote", r.RemoteAddr, "path", r.URL.Path)
			h.errorResponse(w, http.StatusUnauthorized, "Invalid admin token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return h.validate(dst)
}

func (h *Handler) validate(v interface{}) error {
	if err := h.validator.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

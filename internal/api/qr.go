package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/qrcert"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// QRHandler handles certificate generation and decoding.
type QRHandler struct {
	*Deps
}

type qrRequest struct {
	Fitting model.FittingData `json:"fitting"`
	Options qrcert.Options    `json:"options"`
	Format  string            `json:"format"`
}

type qrResponse struct {
	CertificateID string `json:"certificateId"`
	Payload       string `json:"payload"`
	Format        string `json:"format"`
	Image         string `json:"image"`
	Filename      string `json:"filename"`
}

type decodeRequest struct {
	Payload string `json:"payload"`
}

type decodeResponse struct {
	Fitting *model.FittingData `json:"fitting"`
}

// rendered is a generated certificate ready to be returned.
type rendered struct {
	*qrcert.Image
	CertificateID string
	BatchID       string
}

// render validates the request, renders the certificate and records it. On
// failure it writes the error response and returns nil.
func (h *QRHandler) render(w http.ResponseWriter, r *http.Request) *rendered {
	var req qrRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return nil
	}

	fitting := req.Fitting.Trimmed()
	if missing := fitting.MissingFields(); len(missing) > 0 {
		jsonError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return nil
	}

	format, err := qrcert.ParseFormat(req.Format)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return nil
	}

	img, err := h.Codec.Render(fitting, format, req.Options)
	h.Metrics.QRGenerated(format, err)
	if errors.Is(err, qrcert.ErrInvalidOptions) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return nil
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, qrcert.ErrGenerate.Error())
		return nil
	}

	out := &rendered{Image: img, BatchID: fitting.BatchID}
	cert, err := store.CreateCertificate(r.Context(), h.DB, fitting.BatchID, img.Payload, img.Format, userID(r.Context()))
	if err != nil {
		slog.Error("failed to record certificate", "batch_id", fitting.BatchID, "error", err)
	} else {
		out.CertificateID = cert.ID
	}

	slog.Info("certificate generated", "user", GetClaims(r.Context()).Username, "batch_id", fitting.BatchID, "format", img.Format)
	return out
}

// Generate handles POST /api/qr.
func (h *QRHandler) Generate(w http.ResponseWriter, r *http.Request) {
	out := h.render(w, r)
	if out == nil {
		return
	}

	jsonResponse(w, http.StatusOK, qrResponse{
		CertificateID: out.CertificateID,
		Payload:       out.Payload,
		Format:        out.Format,
		Image:         out.DataURL(),
		Filename:      qrcert.Filename(out.BatchID, out.Format, h.Now()),
	})
}

// Download handles POST /api/qr/download.
func (h *QRHandler) Download(w http.ResponseWriter, r *http.Request) {
	out := h.render(w, r)
	if out == nil {
		return
	}

	Attachment(w, qrcert.Filename(out.BatchID, out.Format, h.Now()), out.ContentType(), out.Data)
}

// Decode handles POST /api/qr/decode.
func (h *QRHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fitting := qrcert.Decode(req.Payload)
	if fitting == nil {
		jsonError(w, http.StatusUnprocessableEntity, "payload is not a valid certificate")
		return
	}
	jsonResponse(w, http.StatusOK, decodeResponse{Fitting: fitting})
}

// Certificates handles GET /api/certificates.
func (h *QRHandler) Certificates(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	certs, err := store.ListCertificates(r.Context(), h.DB, r.URL.Query().Get("batch"), limit)
	if err != nil {
		slog.Error("failed to list certificates", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list certificates")
		return
	}
	if certs == nil {
		certs = []model.Certificate{}
	}
	jsonResponse(w, http.StatusOK, certs)
}

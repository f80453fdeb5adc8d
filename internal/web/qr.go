package web

import (
	"encoding/base64"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/railsuraksha/railsuraksha/internal/api"
	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/qrcert"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// qrPage is the data for qr.html.
type qrPage struct {
	PageData
	Fitting  model.FittingData
	Options  qrcert.Options
	Format   string
	Levels   []string
	Image    template.URL
	Payload  string
	Filename string
	Decoded  *model.FittingData
	Recent   []model.Certificate
}

func (s *Server) newQRPage(r *http.Request) *qrPage {
	recent, err := store.ListCertificates(r.Context(), s.DB, "", 10)
	if err != nil {
		slog.Error("failed to list certificates", "error", err)
	}
	return &qrPage{
		PageData: s.page(r, "QR certificates", "qr"),
		Format:   qrcert.FormatPNG,
		Levels:   []string{"L", "M", "Q", "H"},
		Options: qrcert.Options{
			Width:           qrcert.DefaultWidth,
			Margin:          qrcert.DefaultMargin,
			Dark:            qrcert.DefaultDark,
			Light:           qrcert.DefaultLight,
			ErrorCorrection: qrcert.DefaultErrorCorrection,
		},
		Recent: recent,
	}
}

// fittingFromForm reads certificate input from a submitted form.
func fittingFromForm(r *http.Request) model.FittingData {
	return model.FittingData{
		VendorName:      r.FormValue("vendorName"),
		LotNumber:       r.FormValue("lotNumber"),
		ItemType:        r.FormValue("itemType"),
		ManufactureDate: r.FormValue("manufactureDate"),
		SupplyDate:      r.FormValue("supplyDate"),
		WarrantyPeriod:  r.FormValue("warrantyPeriod"),
		Specifications:  r.FormValue("specifications"),
		BatchID:         r.FormValue("batchId"),
	}.Trimmed()
}

// optionsFromForm reads rendering options. Blank or unparseable numbers fall
// back to the defaults.
func optionsFromForm(r *http.Request) qrcert.Options {
	width, _ := strconv.Atoi(r.FormValue("width"))
	margin, _ := strconv.Atoi(r.FormValue("margin"))
	return qrcert.Options{
		Width:           width,
		Margin:          margin,
		Dark:            r.FormValue("dark"),
		Light:           r.FormValue("light"),
		ErrorCorrection: r.FormValue("errorCorrectionLevel"),
	}
}

// QRPage handles GET /qr. ?fitting=<id> prefills the form from inventory.
func (s *Server) QRPage(w http.ResponseWriter, r *http.Request) {
	p := s.newQRPage(r)
	if id := r.URL.Query().Get("fitting"); id != "" {
		f, err := store.GetFitting(r.Context(), s.DB, id)
		if err != nil {
			slog.Error("failed to get fitting", "error", err)
		}
		if f != nil {
			p.Fitting = model.FittingData{
				VendorName:      f.Vendor,
				ItemType:        f.ItemType,
				ManufactureDate: f.ManufactureDate,
				SupplyDate:      f.SupplyDate,
				BatchID:         f.BatchID,
			}
		}
	}
	s.Templates.Render(w, "qr.html", p)
}

// renderForm renders the submitted certificate. On failure it fills p.Error
// and returns nil.
func (s *Server) renderForm(r *http.Request, p *qrPage) *qrcert.Image {
	p.Fitting = fittingFromForm(r)
	p.Options = optionsFromForm(r)

	if missing := p.Fitting.MissingFields(); len(missing) > 0 {
		p.Error = "Please fill in: " + strings.Join(missing, ", ") + "."
		return nil
	}

	format, err := qrcert.ParseFormat(r.FormValue("format"))
	if err != nil {
		p.Error = err.Error()
		return nil
	}
	p.Format = format

	img, err := s.Codec.Render(p.Fitting, p.Format, p.Options)
	s.Metrics.QRGenerated(p.Format, err)
	if errors.Is(err, qrcert.ErrInvalidOptions) {
		p.Error = err.Error()
		return nil
	}
	if err != nil {
		p.Error = "Failed to generate QR code. Try a lower error correction level or shorter specifications."
		return nil
	}

	claims := GetWebClaims(r.Context())
	userID := claims.UserID
	if _, err := store.CreateCertificate(r.Context(), s.DB, p.Fitting.BatchID, img.Payload, img.Format, &userID); err != nil {
		slog.Error("failed to record certificate", "batch_id", p.Fitting.BatchID, "error", err)
	}
	slog.Info("certificate generated", "user", claims.Username, "batch_id", p.Fitting.BatchID, "format", img.Format)
	return img
}

// QRSubmit handles POST /qr and shows a preview of the certificate.
func (s *Server) QRSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, model.RoleInspector) {
		return
	}

	p := s.newQRPage(r)
	img := s.renderForm(r, p)
	if img != nil {
		p.Payload = img.Payload
		p.Filename = qrcert.Filename(p.Fitting.BatchID, img.Format, s.Now())
		p.Image = previewURL(img)
		p.Recent, _ = store.ListCertificates(r.Context(), s.DB, "", 10)
	}
	s.Templates.Render(w, "qr.html", p)
}

// QRDownload handles POST /qr/download.
func (s *Server) QRDownload(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r, model.RoleInspector) {
		return
	}

	p := s.newQRPage(r)
	img := s.renderForm(r, p)
	if img == nil {
		s.Templates.Render(w, "qr.html", p)
		return
	}
	api.Attachment(w, qrcert.Filename(p.Fitting.BatchID, img.Format, s.Now()), img.ContentType(), img.Data)
}

// QRDecode handles POST /qr/decode.
func (s *Server) QRDecode(w http.ResponseWriter, r *http.Request) {
	p := s.newQRPage(r)
	p.Payload = r.FormValue("payload")
	p.Decoded = qrcert.Decode(p.Payload)
	if p.Decoded == nil {
		p.Error = "That payload is not a valid certificate."
	}
	s.Templates.Render(w, "qr.html", p)
}

// previewURL returns an <img src> for the rendered certificate.
func previewURL(img *qrcert.Image) template.URL {
	if img.Format == qrcert.FormatSVG {
		return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(img.Data))
	}
	return template.URL(img.DataURL())
}

package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/me0hharryy/dermaGo/api/responses"
	"github.com/me0hharryy/dermaGo/api/validators"
	"github.com/me0hharryy/dermaGo/internal/scans"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/logger"
)

// multipartOverhead leaves room for the form fields around the image.
const multipartOverhead = 1 << 20

type barcodeRequest struct {
	Barcode string `json:"barcode" validate:"required,max=64"`
}

// ScansLabel analyzes an uploaded product label photo. The form carries
// "productName" and the "image" file.
func ScansLabel(svc scans.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, uploadError(err, maxBytes))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, _, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "an image of the product label is required").
				WithDetails(map[string]string{"image": "is required"}))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "could not read the uploaded image"))
			return
		}
		if int64(len(data)) > maxBytes {
			responses.WriteError(r.Context(), logg, w, tooLargeError(nil, maxBytes))
			return
		}

		analysis, err := svc.ScanLabel(r.Context(), userID, scans.LabelInput{
			ProductName: validators.SanitizeString(r.FormValue("productName"), 200),
			Image:       data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, analysis)
	}
}

// ScansBarcode analyzes a product by its barcode.
func ScansBarcode(svc scans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body barcodeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		analysis, err := svc.ScanBarcode(r.Context(), userID, validators.SanitizeString(body.Barcode, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, analysis)
	}
}

// ScansList returns the caller's saved product analyses, newest first.
func ScansList(svc scans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func uploadError(err error, maxBytes int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return tooLargeError(err, maxBytes)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "expected a multipart form upload")
}

func tooLargeError(err error, maxBytes int64) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image is too large").
		WithDetails(map[string]any{"image": "is too large", "max_bytes": maxBytes})
}

package scans

import (
	"context"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/me0hharryy/dermaGo/pkg/enums"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"github.com/me0hharryy/dermaGo/pkg/gemini"
	"github.com/me0hharryy/dermaGo/pkg/logger"
	"github.com/me0hharryy/dermaGo/pkg/pagination"
)

// AcceptedImageTypes are the label photo formats the model can read.
var AcceptedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif"}

// Analyzer asks the model about a product.
type Analyzer interface {
	Label(ctx context.Context, productName string, image gemini.Image) (Analysis, error)
	Barcode(ctx context.Context, barcode string) (Analysis, error)
}

// Store is the analysis persistence the service needs.
type Store interface {
	Append(ctx context.Context, userID uuid.UUID, source enums.ScanSource, barcode *string, a Analysis) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedProductDTO], error)
}

// LabelInput is a label photo upload.
type LabelInput struct {
	ProductName string
	Image       []byte
}

// ServiceParams groups dependencies for the scans service.
type ServiceParams struct {
	Analyzer       Analyzer
	Store          Store
	Logger         *logger.Logger
	MaxUploadBytes int64
}

// Service analyzes products and records the results.
type Service interface {
	ScanLabel(ctx context.Context, userID uuid.UUID, in LabelInput) (Analysis, error)
	ScanBarcode(ctx context.Context, userID uuid.UUID, barcode string) (Analysis, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedProductDTO], error)
}

type service struct {
	analyzer Analyzer
	store    Store
	logg     *logger.Logger
	maxBytes int64
}

// NewService builds the scans service.
func NewService(params ServiceParams) (Service, error) {
	if params.Analyzer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "analyzer is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scan store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	maxBytes := params.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &service{analyzer: params.Analyzer, store: params.Store, logg: logg, maxBytes: maxBytes}, nil
}

// SniffImage detects the upload's content type from its bytes and rejects
// anything that is not an accepted image.
func SniffImage(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "An image is required").
			WithDetails(map[string]string{"image": "is required"})
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image is too large").
			WithDetails(map[string]any{"image": "exceeds upload limit", "max_bytes": maxBytes})
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if slices.Contains(AcceptedImageTypes, m.String()) {
			return m.String(), nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
		WithDetails(map[string]any{"image": mt.String(), "accepted": AcceptedImageTypes})
}

func (s *service) ScanLabel(ctx context.Context, userID uuid.UUID, in LabelInput) (Analysis, error) {
	if userID == uuid.Nil {
		return Analysis{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return Analysis{}, pkgerrors.New(pkgerrors.CodeValidation, "Product Name is required").
			WithDetails(map[string]string{"productName": "is required"})
	}
	mimeType, err := SniffImage(in.Image, s.maxBytes)
	if err != nil {
		return Analysis{}, err
	}

	analysis, err := s.analyzer.Label(ctx, name, gemini.Image{Data: in.Image, MIMEType: mimeType})
	if err != nil {
		return Analysis{}, err
	}
	s.record(ctx, userID, enums.ScanSourceImage, nil, analysis)
	return analysis, nil
}

func (s *service) ScanBarcode(ctx context.Context, userID uuid.UUID, barcode string) (Analysis, error) {
	if userID == uuid.Nil {
		return Analysis{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	code := strings.TrimSpace(barcode)
	if code == "" {
		return Analysis{}, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required").
			WithDetails(map[string]string{"barcode": "is required"})
	}

	analysis, err := s.analyzer.Barcode(ctx, code)
	if err != nil {
		return Analysis{}, err
	}
	s.record(ctx, userID, enums.ScanSourceBarcode, &code, analysis)
	return analysis, nil
}

func (s *service) record(ctx context.Context, userID uuid.UUID, source enums.ScanSource, barcode *string, a Analysis) {
	if err := s.store.Append(ctx, userID, source, barcode, a); err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "source": source.String()})
		s.logg.Error(ctx, "save product analysis", err)
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedProductDTO], error) {
	if userID == uuid.Nil {
		return pagination.Page[SavedProductDTO]{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}
	page, err := s.store.List(ctx, userID, params)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return page, err
		}
		return page, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

// RepositoryStore adapts Repository to Store.
type RepositoryStore struct {
	Repo *Repository
}

func (s RepositoryStore) Append(ctx context.Context, userID uuid.UUID, source enums.ScanSource, barcode *string, a Analysis) error {
	_, err := s.Repo.Append(ctx, userID, source, barcode, a)
	return err
}

func (s RepositoryStore) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[SavedProductDTO], error) {
	return s.Repo.List(ctx, userID, params)
}

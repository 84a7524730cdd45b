package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"regexp"
	"time"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/dbx"
	"github.com/dmitrijs2005/baibai/internal/logging"
	"github.com/dmitrijs2005/baibai/internal/server/images"
	"github.com/dmitrijs2005/baibai/internal/server/locations"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/dmitrijs2005/baibai/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/baibai/internal/shared"
)

var allowedImageTypes = regexp.MustCompile(`^image/(jpg|jpeg|png|webp)$`)

var (
	ErrImageTooLarge   = fmt.Errorf("%w: image too large", common.ErrorValidation)
	ErrImageType       = fmt.Errorf("%w: image type must be jpg, jpeg, png or webp", common.ErrorValidation)
	ErrImageMissing    = fmt.Errorf("%w: image is required", common.ErrorValidation)
	ErrProductNotFound = fmt.Errorf("product %w", common.ErrorNotFound)
)

// ImageUpload is an uploaded preview image as received from the client.
type ImageUpload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProductService manages product listings and their preview images.
// Mutations are allowed only to the product owner; for everyone else the
// product does not exist.
type ProductService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	images       images.Store
	maxImageSize int64
	log          logging.Logger
	now          func() time.Time
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, store images.Store, maxImageSize int64, log logging.Logger) *ProductService {
	return &ProductService{
		db:           db,
		repomanager:  m,
		images:       store,
		maxImageSize: maxImageSize,
		log:          log.With("module", "products"),
		now:          time.Now,
	}
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *ProductService) Locations() []string {
	return locations.All()
}

// Preview opens a stored preview image.
func (s *ProductService) Preview(ctx context.Context, name string) (io.ReadCloser, string, error) {
	return s.images.Get(ctx, name)
}

// OwnedProduct loads productID through db and returns it only when it
// belongs to p. Missing and foreign products both yield ErrProductNotFound.
func (s *ProductService) OwnedProduct(ctx context.Context, db dbx.DBTX, productID string, p models.Principal) (*models.Product, error) {
	product, err := s.repomanager.Products(db).GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.UserID != p.ID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create stores the image and inserts the product owned by p. The image is
// removed again if the insert fails.
func (s *ProductService) Create(ctx context.Context, p models.Principal, fields models.ProductFields, img *ImageUpload) (*models.Product, error) {
	name, err := s.storeImage(ctx, img)
	if err != nil {
		return nil, err
	}

	product, err := s.repomanager.Products(s.db).Create(ctx, p.ID, fields, name)
	if err != nil {
		s.removeImage(ctx, name)
		return nil, err
	}

	return product, nil
}

// Update changes the fields of a product owned by p, keeping its image.
func (s *ProductService) Update(ctx context.Context, p models.Principal, productID string, fields models.ProductFields) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.OwnedProduct(ctx, tx, productID, p); err != nil {
			return err
		}
		return s.repomanager.Products(tx).Update(ctx, productID, p.ID, fields, nil)
	})
}

// UpdateWithImage is Update plus a new preview image. The previous image is
// removed once the change is committed; on failure the new one is.
func (s *ProductService) UpdateWithImage(ctx context.Context, p models.Principal, productID string, fields models.ProductFields, img *ImageUpload) error {
	name, err := s.storeImage(ctx, img)
	if err != nil {
		return err
	}

	var old string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		product, err := s.OwnedProduct(ctx, tx, productID, p)
		if err != nil {
			return err
		}
		old = product.PreviewImageURL
		return s.repomanager.Products(tx).Update(ctx, productID, p.ID, fields, &name)
	})
	if err != nil {
		s.removeImage(ctx, name)
		return err
	}

	s.removeImage(ctx, old)
	return nil
}

// Delete removes a product owned by p together with its image.
func (s *ProductService) Delete(ctx context.Context, p models.Principal, productID string) error {
	var image string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		product, err := s.OwnedProduct(ctx, tx, productID, p)
		if err != nil {
			return err
		}
		image = product.PreviewImageURL
		return s.repomanager.Products(tx).Delete(ctx, productID, p.ID)
	})
	if err != nil {
		return err
	}

	s.removeImage(ctx, image)
	return nil
}

// ValidateImage checks presence, size and content type of an upload.
func (s *ProductService) ValidateImage(img *ImageUpload) error {
	if img == nil || img.Body == nil {
		return ErrImageMissing
	}
	if img.Size >= s.maxImageSize {
		return ErrImageTooLarge
	}
	mediaType, _, err := mime.ParseMediaType(img.ContentType)
	if err != nil || !allowedImageTypes.MatchString(mediaType) {
		return ErrImageType
	}
	return nil
}

func (s *ProductService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	if err := s.ValidateImage(img); err != nil {
		return "", err
	}

	name, err := shared.ImageFileName(img.ContentType, s.now())
	if err != nil {
		return "", fmt.Errorf("%w: image name: %w", common.ErrorInternal, err)
	}

	if err := s.images.Put(ctx, name, img.ContentType, img.Body, img.Size); err != nil {
		return "", fmt.Errorf("%w: store image: %w", common.ErrorInternal, err)
	}

	return name, nil
}

func (s *ProductService) removeImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Delete(ctx, name); err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.log.Warn(ctx, "failed to remove image", "name", name, "error", err)
	}
}

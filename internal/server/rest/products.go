package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/dmitrijs2005/baibai/internal/server/services"
	"github.com/gin-gonic/gin"
)

// multipart framing and text fields on top of the image itself
const formOverhead = 64 << 10

type productRequest struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" form:"description" binding:"max=500"`
	Price       string `json:"price" form:"price" binding:"required,currency"`
	Quantity    int    `json:"quantity" form:"quantity" binding:"required,gt=0"`
	Location    string `json:"location" form:"location" binding:"required,location"`
	Status      string `json:"status" form:"status" binding:"required,oneof=new like-new refurbished secondhand"`
}

func (r productRequest) fields() models.ProductFields {
	return models.ProductFields{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Location:    r.Location,
		Status:      r.Status,
	}
}

type productItem struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Price           json.Number `json:"price"`
	Quantity        int         `json:"quantity"`
	Status          string      `json:"status"`
	PreviewImageURL string      `json:"previewImageUrl"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type productOwner struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type productDetails struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Price           json.Number   `json:"price"`
	Quantity        int           `json:"quantity"`
	Location        string        `json:"location"`
	Status          string        `json:"status"`
	PreviewImageURL string        `json:"previewImageUrl"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	User            *productOwner `json:"user,omitempty"`
}

func newProductDetails(p *models.Product) productDetails {
	d := productDetails{
		ID:              p.ID,
		UserID:          p.UserID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           json.Number(p.Price),
		Quantity:        p.Quantity,
		Location:        p.Location,
		Status:          p.Status,
		PreviewImageURL: p.PreviewImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Owner != nil {
		d.User = &productOwner{Username: p.Owner.UserName, CreatedAt: p.Owner.CreatedAt}
	}
	return d
}

func (s *Server) listProducts(c *gin.Context) {
	filter := models.ProductFilter{
		Search:   c.Query("search"),
		UserName: c.Query("username"),
	}

	list, err := s.products.List(c.Request.Context(), filter)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]productItem, 0, len(list))
	for _, p := range list {
		out = append(out, productItem{
			ID:              p.ID,
			Name:            p.Name,
			Price:           json.Number(p.Price),
			Quantity:        p.Quantity,
			Status:          p.Status,
			PreviewImageURL: p.PreviewImageURL,
			CreatedAt:       p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) locations(c *gin.Context) {
	c.JSON(http.StatusOK, s.products.Locations())
}

func (s *Server) preview(c *gin.Context) {
	rc, contentType, err := s.products.Preview(c.Request.Context(), c.Param("filename"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

func (s *Server) getProduct(c *gin.Context) {
	p, err := s.products.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductDetails(p))
}

func (s *Server) createProduct(c *gin.Context) {
	p, _ := principal(c)

	fields, img, closeImg, err := s.readProductForm(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	defer closeImg()

	product, err := s.products.Create(c.Request.Context(), p, fields, img)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProductDetails(product))
}

func (s *Server) updateProduct(c *gin.Context) {
	p, _ := principal(c)

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithStatus(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := s.products.Update(c.Request.Context(), p, c.Param("productId"), req.fields()); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

func (s *Server) updateProductMultipart(c *gin.Context) {
	p, _ := principal(c)

	fields, img, closeImg, err := s.readProductForm(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	defer closeImg()

	if err := s.products.UpdateWithImage(c.Request.Context(), p, c.Param("productId"), fields, img); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

func (s *Server) deleteProduct(c *gin.Context) {
	p, _ := principal(c)

	if err := s.products.Delete(c.Request.Context(), p, c.Param("productId")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

// readProductForm binds the multipart product fields and opens the "image"
// part. The returned func closes the image.
func (s *Server) readProductForm(c *gin.Context) (models.ProductFields, *services.ImageUpload, func(), error) {
	noop := func() {}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxImageSize+formOverhead)

	var req productRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.ProductFields{}, nil, noop, services.ErrImageTooLarge
		}
		return models.ProductFields{}, nil, noop, fmt.Errorf("%w: %s", common.ErrorValidation, validationMessage(err))
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return models.ProductFields{}, nil, noop, services.ErrImageMissing
	}

	f, err := fh.Open()
	if err != nil {
		return models.ProductFields{}, nil, noop, fmt.Errorf("%w: open upload: %w", common.ErrorInternal, err)
	}

	img := &services.ImageUpload{
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
	return req.fields(), img, func() { _ = f.Close() }, nil
}

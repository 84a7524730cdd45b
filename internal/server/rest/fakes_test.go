package rest

import (
	"context"
	"io"
	"strings"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/dmitrijs2005/baibai/internal/server/services"
)

var (
	alice = models.Principal{ID: "0b7f3a4e-6f1c-4d7a-9b8e-2c3d4e5f6a7b", UserName: "alice1"}
	bob   = models.Principal{ID: "1c8e4b5f-7a2d-4e8b-8c9f-3d4e5f6a7b8c", UserName: "bob22"}
)

type fakeAuth struct {
	tokens  map[string]models.Principal
	loginFn func(username, password string) (*services.TokenPair, error)
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*services.TokenPair, error) {
	return f.loginFn(username, password)
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (*services.TokenPair, error) {
	if token != "refresh-alice" {
		return nil, common.ErrorUnauthorized
	}
	return &services.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (f *fakeAuth) Authenticate(token string) (models.Principal, error) {
	p, ok := f.tokens[token]
	if !ok {
		return models.Principal{}, common.ErrorUnauthorized
	}
	return p, nil
}

type fakeUsers struct {
	users    map[string]*models.User
	admins   map[string]bool
	adminErr error
}

func (f *fakeUsers) Register(_ context.Context, username, _ string) (*models.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := &models.User{ID: "new-id", UserName: username}
	f.users[username] = u
	return u, nil
}

func (f *fakeUsers) Profile(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) List(context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) IsAdmin(_ context.Context, id string) (bool, error) {
	if f.adminErr != nil {
		return false, f.adminErr
	}
	return f.admins[id], nil
}

type fakeProducts struct {
	byID      map[string]*models.Product
	created   *models.ProductFields
	createdCT string
	filter    models.ProductFilter
	previews  map[string]string
}

func (f *fakeProducts) List(_ context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	f.filter = filter
	out := make([]*models.Product, 0)
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Get(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, services.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) Locations() []string { return []string{"Germany", "United States"} }

func (f *fakeProducts) Preview(_ context.Context, name string) (io.ReadCloser, string, error) {
	data, ok := f.previews[name]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return io.NopCloser(strings.NewReader(data)), "image/jpeg", nil
}

func (f *fakeProducts) Create(_ context.Context, p models.Principal, fields models.ProductFields, img *services.ImageUpload) (*models.Product, error) {
	f.created = &fields
	f.createdCT = img.ContentType
	return &models.Product{
		ID: "9a1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d", UserID: p.ID, Name: fields.Name, Price: fields.Price,
		Quantity: fields.Quantity, Location: fields.Location, Status: fields.Status, PreviewImageURL: "x.png",
	}, nil
}

func (f *fakeProducts) owned(p models.Principal, id string) error {
	prod, ok := f.byID[id]
	if !ok || prod.UserID != p.ID {
		return services.ErrProductNotFound
	}
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p models.Principal, id string, fields models.ProductFields) error {
	if err := f.owned(p, id); err != nil {
		return err
	}
	f.byID[id].Name = fields.Name
	return nil
}

func (f *fakeProducts) UpdateWithImage(_ context.Context, p models.Principal, id string, fields models.ProductFields, _ *services.ImageUpload) error {
	return f.Update(context.Background(), p, id, fields)
}

func (f *fakeProducts) Delete(_ context.Context, p models.Principal, id string) error {
	if err := f.owned(p, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/dbx"
	"github.com/dmitrijs2005/baibai/internal/server/models"
	"github.com/dmitrijs2005/baibai/internal/server/repositories/products"
	"github.com/dmitrijs2005/baibai/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeRepoManager struct {
	users    *fakeUsersRepo
	products *fakeProductsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    &fakeUsersRepo{byName: map[string]*models.User{}},
		products: &fakeProductsRepo{byID: map[string]*models.Product{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return m.users }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository      { return m.products }

type fakeUsersRepo struct {
	mu     sync.Mutex
	byName map[string]*models.User
	err    error
}

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byName[u.UserName] = &cp
	return u, nil
}

func (r *fakeUsersRepo) GetUserByLogin(_ context.Context, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*models.User, 0, len(r.byName))
	for _, u := range r.byName {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type fakeProductsRepo struct {
	byID      map[string]*models.Product
	createErr error
	updateErr error
	getErr    error
}

func (r *fakeProductsRepo) List(_ context.Context, f models.ProductFilter) ([]*models.Product, error) {
	out := make([]*models.Product, 0)
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductsRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductsRepo) Create(_ context.Context, userID string, f models.ProductFields, image string) (*models.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	p := &models.Product{
		ID: uuid.NewString(), UserID: userID, Name: f.Name, Description: f.Description, Price: f.Price,
		Quantity: f.Quantity, Location: f.Location, Status: f.Status, PreviewImageURL: image,
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *fakeProductsRepo) Update(_ context.Context, id, userID string, f models.ProductFields, image *string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.byID[id]
	if !ok || p.UserID != userID {
		return common.ErrorNotFound
	}
	p.Name, p.Description, p.Price, p.Quantity, p.Location, p.Status =
		f.Name, f.Description, f.Price, f.Quantity, f.Location, f.Status
	if image != nil {
		p.PreviewImageURL = *image
	}
	return nil
}

func (r *fakeProductsRepo) Delete(_ context.Context, id, userID string) error {
	p, ok := r.byID[id]
	if !ok || p.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeImageStore struct {
	files  map[string][]byte
	putErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: map[string][]byte{}}
}

func (s *fakeImageStore) Put(_ context.Context, name, _ string, r io.Reader, _ int64) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.files[name] = data
	return nil
}

func (s *fakeImageStore) Get(_ context.Context, name string) (io.ReadCloser, string, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "image/png", nil
}

func (s *fakeImageStore) Delete(_ context.Context, name string) error {
	if _, ok := s.files[name]; !ok {
		return common.ErrorNotFound
	}
	delete(s.files, name)
	return nil
}

package service

import (
	"context"

	"github.com/avolkov/marketplace-system/internal/model"
)

// CatalogRepository описывает контракт доступа к данным каталога.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p model.Product) (int64, error)
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	SearchProducts(ctx context.Context, term string) ([]model.Product, error)
}

// Catalog реализует операции каталога товаров.
type Catalog struct {
	repo CatalogRepository
}

// NewCatalog создаёт новый сервис каталога.
func NewCatalog(repo CatalogRepository) *Catalog {
	return &Catalog{repo: repo}
}

// AddProduct сохраняет товар и возвращает его идентификатор. Поля
// принимаются как есть; image — имя файла из блоб-хранилища либо nil.
func (s *Catalog) AddProduct(ctx context.Context, name, description, price, category string, image *string) (int64, error) {
	return s.repo.CreateProduct(ctx, model.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Image:       image,
	})
}

// Products возвращает все товары каталога.
func (s *Catalog) Products(ctx context.Context) ([]model.Product, error) {
	return s.repo.GetProducts(ctx)
}

// ProductByID возвращает товар по идентификатору.
func (s *Catalog) ProductByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

// ProductsByCategory возвращает товары с точным совпадением категории.
func (s *Catalog) ProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return s.repo.GetProductsByCategory(ctx, category)
}

// Search возвращает товары, у которых искомая строка входит в название,
// описание или категорию без учёта регистра.
func (s *Catalog) Search(ctx context.Context, term string) ([]model.Product, error) {
	return s.repo.SearchProducts(ctx, term)
}

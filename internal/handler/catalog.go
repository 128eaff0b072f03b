package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avolkov/marketplace-system/internal/model"
	"github.com/avolkov/marketplace-system/internal/repository"
)

// maxImageMemory ограничивает объём multipart-формы, удерживаемый в памяти.
const maxImageMemory = 32 << 20

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

type addProductResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// AddProduct сохраняет новый товар каталога. Изображение необязательно;
// при наличии оно уходит в блоб-хранилище, а в товаре остаётся имя файла.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeText(w, http.StatusInternalServerError, "Error adding product")
		return
	}

	var image *string
	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()

		name, err := h.blobs.Save(file)
		if err != nil {
			h.logger.Error("save image error", zap.Error(err))
			writeText(w, http.StatusInternalServerError, "Error adding product")
			return
		}
		image = &name
	}

	id, err := h.catalog.AddProduct(r.Context(),
		r.FormValue("name"),
		r.FormValue("description"),
		r.FormValue("price"),
		r.FormValue("category"),
		image,
	)
	if err != nil {
		h.logger.Error("add product error", zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Error adding product")
		return
	}

	h.writeJSON(w, addProductResponse{Success: true, ID: id})
}

// GetProducts возвращает все товары каталога.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.logger.Error("get products error", zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Error retrieving products")
		return
	}

	h.writeJSON(w, productList(products))
}

// GetProduct возвращает товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request: id does not exist")
		return
	}

	p, err := h.catalog.ProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			writeText(w, http.StatusBadRequest, "Invalid request: id does not exist")
			return
		}
		h.logger.Error("get product error", zap.Error(err), zap.Int64("productID", id))
		writeText(w, http.StatusInternalServerError, "Error retrieving product")
		return
	}

	h.writeJSON(w, p)
}

// GetProductsByCategory возвращает товары указанной категории.
func (h *Handler) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.catalog.ProductsByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("get products by category error", zap.Error(err), zap.String("category", category))
		writeText(w, http.StatusInternalServerError, "Error retrieving products of this category")
		return
	}

	h.writeJSON(w, productList(products))
}

// SearchProducts ищет товары по подстроке в названии, описании или категории.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "searchTerm")

	products, err := h.catalog.Search(r.Context(), term)
	if err != nil {
		h.logger.Error("search products error", zap.Error(err), zap.String("term", term))
		writeText(w, http.StatusInternalServerError, "Error searching products")
		return
	}

	h.writeJSON(w, productList(products))
}

// productList нормализует nil-срез в пустой, чтобы клиент всегда получал JSON-массив.
func productList(products []model.Product) []model.Product {
	if products == nil {
		return []model.Product{}
	}
	return products
}

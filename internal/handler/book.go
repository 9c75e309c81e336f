package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anatole0000/book-store/internal/catalog"
	"github.com/anatole0000/book-store/internal/logger"
	"github.com/anatole0000/book-store/internal/repository"
)

// HandleListBooks serves the public catalog listing with search and
// pagination
func HandleListBooks(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		filter := repository.BookFilter{
			Query:       r.URL.Query().Get("q"),
			Category:    r.URL.Query().Get("category"),
			InStockOnly: r.URL.Query().Get("in_stock") == "true",
		}

		var err error
		if filter.Limit, err = parseIntParam(r, "limit", 50); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}
		if filter.Offset, err = parseIntParam(r, "offset", 0); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidOffset)
			return
		}

		books, total, err := svc.ListBooks(r.Context(), filter)
		if err != nil {
			log.Error("Failed to list books", "error", err)
			respondServiceError(w, err, ErrMsgListBooksFailed)
			return
		}

		respondJSON(w, http.StatusOK, ListResponse{Data: books, Total: total})
	}
}

// HandleGetBook serves a single catalog entry
func HandleGetBook(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "bookID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidBookID)
			return
		}

		book, err := svc.GetBook(r.Context(), id)
		if err != nil {
			respondServiceError(w, err, ErrMsgGetBookFailed)
			return
		}
		respondJSON(w, http.StatusOK, book)
	}
}

// HandleCreateBook adds a book to the catalog (admin)
func HandleCreateBook(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var input catalog.CreateBookInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Error("Failed to decode create book request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(input); err != nil {
			log.Warn("Invalid create book request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": FormatValidationError(err)})
			return
		}

		book, err := svc.CreateBook(r.Context(), CallerFromRequest(r), input)
		if err != nil {
			log.Error("Failed to create book", "error", err)
			respondServiceError(w, err, ErrMsgCreateBookFailed)
			return
		}
		respondJSON(w, http.StatusCreated, book)
	}
}

// HandleUpdateBook applies a partial catalog update (admin)
func HandleUpdateBook(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "bookID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidBookID)
			return
		}

		var input catalog.UpdateBookInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Error("Failed to decode update book request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}
		if err := GetValidator().ValidateStruct(input); err != nil {
			log.Warn("Invalid update book request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": FormatValidationError(err)})
			return
		}

		book, err := svc.UpdateBook(r.Context(), CallerFromRequest(r), id, input)
		if err != nil {
			log.Error("Failed to update book", "error", err, "book_id", id)
			respondServiceError(w, err, ErrMsgUpdateBookFailed)
			return
		}
		respondJSON(w, http.StatusOK, book)
	}
}

// HandleDeleteBook removes a catalog entry (admin)
func HandleDeleteBook(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "bookID"))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidBookID)
			return
		}

		if err := svc.DeleteBook(r.Context(), CallerFromRequest(r), id); err != nil {
			logger.FromContext(r.Context()).Error("Failed to delete book", "error", err, "book_id", id)
			respondServiceError(w, err, ErrMsgDeleteBookFailed)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgBookDeletedSuccess})
	}
}

// parseIntParam reads a non-negative integer query parameter with a default
func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

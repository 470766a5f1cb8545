/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reference

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/unikorn-cloud/bookcatalog/pkg/books"
	"github.com/unikorn-cloud/bookcatalog/pkg/types"

	"k8s.io/utils/ptr"
)

const (
	// DefaultSecret signs bearer tokens.
	DefaultSecret = "default-secret-key-change-in-production"

	tokenLifetime = 24 * time.Hour
	tokenExpiry   = "24h"
)

// Options allows behaviour to be defined by the test harness.
type Options struct {
	// Username and Password are the only valid credentials.
	Username string
	Password string
	// Secret signs and verifies HS256 bearer tokens.
	Secret string
	// UpdateMode selects what PUT does with omitted fields.  The default,
	// replace, drops every field the payload leaves out.
	UpdateMode books.UpdateSemantics
	// Environment is reported by the health endpoint.
	Environment string
	// Logger receives request logs.
	Logger logr.Logger
	// Now is the clock, overridable so year validation can be tested.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.Username == "" {
		o.Username = "admin"
	}

	if o.Password == "" {
		o.Password = "test123"
	}

	if o.Secret == "" {
		o.Secret = DefaultSecret
	}

	if o.UpdateMode == "" {
		o.UpdateMode = books.UpdateReplace
	}

	if o.Environment == "" {
		o.Environment = "development"
	}

	if o.Logger.GetSink() == nil {
		o.Logger = logr.Discard()
	}

	if o.Now == nil {
		o.Now = time.Now
	}
}

// Handler serves the book catalog.
type Handler struct {
	options      Options
	store        *store
	passwordHash []byte
	started      time.Time
}

// New returns a handler seeded with the default catalog.
func New(options *Options) (*Handler, error) {
	var o Options

	if options != nil {
		o = *options
	}

	o.setDefaults()

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	h := &Handler{
		options:      o,
		store:        newStore(),
		passwordHash: hash,
		started:      o.Now(),
	}

	return h, nil
}

// Reset restores the seed catalog.
func (h *Handler) Reset() {
	h.store.reset()
}

// Router wires the routes.
func (h *Handler) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(h.logging)
	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.notFound)

	router.Get("/", h.GetIndex)
	router.Get("/health", h.GetHealth)
	router.Post("/auth/login", h.PostLogin)

	router.Route("/books", func(r chi.Router) {
		r.Get("/", h.GetBooks)
		r.Get("/{bookID}", h.GetBook)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/", h.PostBook)
			r.Put("/{bookID}", h.PutBook)
			r.Delete("/{bookID}", h.DeleteBook)
		})
	})

	return router
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

func (h *Handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := h.options.Logger.WithValues("method", r.Method, "path", r.URL.Path)

		if traceParent := r.Header.Get("Traceparent"); traceParent != "" {
			log = log.WithValues("traceparent", traceParent)
		}

		log.V(1).Info("request")

		next.ServeHTTP(w, r.WithContext(logr.NewContext(r.Context(), log)))
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	HandleError(w, r, NotFound(fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path)))
}

// bearerToken mimics "Bearer <token>" splitting, anything after the first
// space is the token.
func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) < 2 {
		return ""
	}

	return parts[1]
}

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			HandleError(w, r, Unauthorized("Access denied. No token provided.", "Authorization header with Bearer token is required"))
			return
		}

		keyFunc := func(*jwt.Token) (any, error) {
			return []byte(h.options.Secret), nil
		}

		if _, err := jwt.Parse(token, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(h.options.Now)); err != nil {
			HandleError(w, r, Unauthorized("Invalid or expired token", err.Error()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) issueToken(username string) (string, error) {
	now := h.options.Now()

	claims := jwt.MapClaims{
		"username": username,
		"role":     "admin",
		"iat":      now.Unix(),
		"exp":      now.Add(tokenLifetime).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.options.Secret))
}

func (h *Handler) GetIndex(w http.ResponseWriter, r *http.Request) {
	result := map[string]any{
		"message": "Book Library API Mock Server",
		"version": "1.0.0",
		"endpoints": map[string]any{
			"auth": map[string]string{
				"login": "POST /auth/login",
			},
			"books": map[string]string{
				"getAll":  "GET /books",
				"getById": "GET /books/:id",
				"create":  "POST /books (requires auth)",
				"update":  "PUT /books/:id (requires auth)",
				"delete":  "DELETE /books/:id (requires auth)",
			},
			"health": "GET /health",
		},
	}

	WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	now := h.options.Now()

	result := &types.Health{
		Status:      "healthy",
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Uptime:      now.Sub(h.started).Seconds(),
		Environment: h.options.Environment,
	}

	h.setUncacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) PostLogin(w http.ResponseWriter, r *http.Request) {
	var credentials types.Credentials

	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		HandleError(w, r, BadRequest("Username and password are required").WithError(err))
		return
	}

	if credentials.Username == "" || credentials.Password == "" {
		HandleError(w, r, BadRequest("Username and password are required"))
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(credentials.Password))

	if credentials.Username != h.options.Username || passwordErr != nil {
		HandleError(w, r, Unauthorized("Unauthorized", "Invalid username or password"))
		return
	}

	token, err := h.issueToken(credentials.Username)
	if err != nil {
		HandleError(w, r, ServerError("unable to issue token").WithError(err))
		return
	}

	result := &types.LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresIn: tokenExpiry,
		User: types.User{
			Username: credentials.Username,
			Role:     "admin",
		},
	}

	h.setUncacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	result := h.store.list()

	h.setUncacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, &types.Envelope[[]types.Book]{
		Success: true,
		Count:   ptr.To(len(result)),
		Data:    result,
	})
}

func bookNotFound(id string) *Error {
	return NotFound(fmt.Sprintf("Book with ID %s not found", id))
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")

	result, ok := h.store.get(id)
	if !ok {
		HandleError(w, r, bookNotFound(id))
		return
	}

	h.setUncacheable(w)
	WriteJSONResponse(w, r, http.StatusOK, &types.Envelope[types.Book]{
		Success: true,
		Data:    result,
	})
}

// bookRequest keeps the year raw so non-numeric values can be rejected
// rather than failing decoding.
type bookRequest struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn"`
	PublishedYear json.RawMessage `json:"publishedYear"`
	Available     *bool           `json:"available"`
}

var errInvalidYear = errors.New("invalid published year")

// year returns nil when no year was given.  A zero year counts as absent.
func (b *bookRequest) year(now time.Time) (*int, error) {
	if len(b.PublishedYear) == 0 || string(b.PublishedYear) == "null" {
		return nil, nil //nolint:nilnil
	}

	var year float64

	if err := json.Unmarshal(b.PublishedYear, &year); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidYear, err)
	}

	if year == 0 {
		return nil, nil //nolint:nilnil
	}

	if year < 1000 || int(year) > now.Year()+1 {
		return nil, errInvalidYear
	}

	return ptr.To(int(year)), nil
}

func invalidYear(now time.Time) *Error {
	return BadRequest(fmt.Sprintf("Invalid publishedYear. Must be a number between 1000 and %d", now.Year()+1))
}

func invalidISBN() *Error {
	return BadRequest("Invalid ISBN format. ISBN should be 10 or 13 digits (hyphens and spaces allowed)")
}

func decodeBook(r *http.Request) (*bookRequest, error) {
	var request bookRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		return nil, BadRequest("Invalid JSON body").WithError(err)
	}

	return &request, nil
}

func (h *Handler) PostBook(w http.ResponseWriter, r *http.Request) {
	request, err := decodeBook(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if request.Title == "" || request.Author == "" || request.ISBN == "" {
		HandleError(w, r, BadRequest("Missing required fields: title, author, and isbn are required"))
		return
	}

	if !ValidISBN(request.ISBN) {
		HandleError(w, r, invalidISBN())
		return
	}

	now := h.options.Now()

	year, err := request.year(now)
	if err != nil {
		HandleError(w, r, invalidYear(now).WithError(err))
		return
	}

	if year == nil {
		year = ptr.To(now.Year())
	}

	available := request.Available
	if available == nil {
		available = ptr.To(true)
	}

	result := h.store.create(types.Book{
		Title:         request.Title,
		Author:        request.Author,
		ISBN:          request.ISBN,
		PublishedYear: year,
		Available:     available,
	})

	WriteJSONResponse(w, r, http.StatusCreated, &types.Envelope[types.Book]{
		Success: true,
		Message: "Book created successfully",
		Data:    result,
	})
}

func (h *Handler) PutBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")

	if _, ok := h.store.get(id); !ok {
		HandleError(w, r, bookNotFound(id))
		return
	}

	request, err := decodeBook(r)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if request.ISBN != "" && !ValidISBN(request.ISBN) {
		HandleError(w, r, invalidISBN())
		return
	}

	now := h.options.Now()

	year, err := request.year(now)
	if err != nil {
		HandleError(w, r, invalidYear(now).WithError(err))
		return
	}

	patch := types.Book{
		Title:         request.Title,
		Author:        request.Author,
		ISBN:          request.ISBN,
		PublishedYear: year,
		Available:     request.Available,
	}

	apply := replaceBook(patch)
	if h.options.UpdateMode == books.UpdateMerge {
		apply = mergeBook(patch)
	}

	result, ok := h.store.update(id, apply)
	if !ok {
		HandleError(w, r, bookNotFound(id))
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, &types.Envelope[types.Book]{
		Success: true,
		Message: "Book updated successfully",
		Data:    result,
	})
}

func replaceBook(patch types.Book) func(types.Book) types.Book {
	return func(types.Book) types.Book {
		return patch
	}
}

func mergeBook(patch types.Book) func(types.Book) types.Book {
	return func(book types.Book) types.Book {
		if patch.Title != "" {
			book.Title = patch.Title
		}

		if patch.Author != "" {
			book.Author = patch.Author
		}

		if patch.ISBN != "" {
			book.ISBN = patch.ISBN
		}

		if patch.PublishedYear != nil {
			book.PublishedYear = patch.PublishedYear
		}

		if patch.Available != nil {
			book.Available = patch.Available
		}

		return book
	}
}

func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")

	if !h.store.remove(id) {
		HandleError(w, r, bookNotFound(id))
		return
	}

	WriteJSONResponse(w, r, http.StatusOK, &types.DeleteResponse{
		Success:   true,
		Message:   "Book deleted successfully",
		DeletedID: id,
	})
}

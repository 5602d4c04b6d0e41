// file: internal/server/data.go
// version: 1.1.0
// guid: a6b91be1-c6fd-424a-8d47-29cf1f81dadb

package server

import (
	"context"
	"net/url"

	"github.com/idea-foundation/reading-room/internal/catalog"
	"github.com/idea-foundation/reading-room/internal/querycache"
	"github.com/idea-foundation/reading-room/internal/urlstate"
)

// Cache key accessors. Every view reads remote data through these so
// identical reads across requests share one cache entry and one fetch.

// cachedBooks reads a listing page through the cache. force routes
// through Refetch so a retry bypasses a cached error instead of being
// served it for the rest of the TTL.
func (s *Server) cachedBooks(ctx context.Context, f urlstate.Filters, force bool) (catalog.BookPage, error) {
	params := f.WireParams()
	key := querycache.NewKey("books", params)
	if force {
		value, err := s.cache.Refetch(ctx, key, func(ctx context.Context) (any, error) {
			return s.svc.GetBooks(ctx, params)
		})
		if err != nil {
			return catalog.BookPage{}, err
		}
		page, _ := value.(catalog.BookPage)
		return page, nil
	}
	return querycache.Get(ctx, s.cache, key, func(ctx context.Context) (catalog.BookPage, error) {
		return s.svc.GetBooks(ctx, params)
	})
}

func (s *Server) cachedBook(ctx context.Context, id string) (*catalog.Book, error) {
	key := querycache.NewKey("books/"+id, nil)
	return querycache.Get(ctx, s.cache, key, func(ctx context.Context) (*catalog.Book, error) {
		return s.svc.GetBook(ctx, id)
	})
}

func (s *Server) cachedCategories(ctx context.Context) ([]catalog.Category, error) {
	key := querycache.NewKey("categories", nil)
	return querycache.Get(ctx, s.cache, key, func(ctx context.Context) ([]catalog.Category, error) {
		return s.svc.GetCategories(ctx)
	})
}

// cachedMergedCategories returns the category tree with flat
// subcategories folded into their parents.
func (s *Server) cachedMergedCategories(ctx context.Context) ([]catalog.Category, error) {
	key := querycache.NewKey("categories-merged", nil)
	return querycache.Get(ctx, s.cache, key, func(ctx context.Context) ([]catalog.Category, error) {
		set, err := s.svc.GetCategoriesAll(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.MergeCategories(set), nil
	})
}

func (s *Server) cachedAuthors(ctx context.Context) ([]catalog.Author, error) {
	key := querycache.NewKey("authors", nil)
	return querycache.Get(ctx, s.cache, key, func(ctx context.Context) ([]catalog.Author, error) {
		return s.svc.GetAuthors(ctx)
	})
}

func (s *Server) cachedSettings(ctx context.Context) (catalog.Settings, error) {
	key := querycache.NewKey("settings", nil)
	return querycache.Get(ctx, s.cache, key, func(ctx context.Context) (catalog.Settings, error) {
		return s.svc.GetSettings(ctx)
	})
}

// cachedLatestBooks is the home view's fixed first-page listing.
func (s *Server) cachedLatestBooks(ctx context.Context, n int) ([]catalog.Book, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("per_page", "8")
	key := querycache.NewKey("books-latest", params)
	page, err := querycache.Get(ctx, s.cache, key, func(ctx context.Context) (catalog.BookPage, error) {
		return s.svc.GetBooks(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	books := page.Data
	if len(books) > n {
		books = books[:n]
	}
	return books, nil
}

// file: internal/server/handlers.go
// version: 1.6.0
// guid: 1a31b9e5-15bc-463b-bdf3-fa9ce03599f6

package server

import (
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/idea-foundation/reading-room/internal/assets"
	"github.com/idea-foundation/reading-room/internal/catalog"
	"github.com/idea-foundation/reading-room/internal/content"
	"github.com/idea-foundation/reading-room/internal/menu"
	"github.com/idea-foundation/reading-room/internal/urlstate"
)

// Slide is one hero carousel entry on the home view.
type Slide struct {
	Title    string
	Subtitle string
	Image    string
	Link     string
}

var homeSlides = []Slide{
	{Title: "ژووری خوێندنەوە", Subtitle: "کتێبخانەی دیجیتاڵی دەزگای ئایدیا", Image: assets.Placeholder(1200, 400), Link: "/books"},
	{Title: "نوێترین بڵاوکراوەکان", Subtitle: "هەموو کتێبە نوێیەکان لە یەک شوێن", Image: assets.Placeholder(1200, 401), Link: "/books"},
	{Title: "بەشەکان", Subtitle: "بە پۆلێن بگەڕێ بەدوای کتێبەکان", Image: assets.Placeholder(1200, 402), Link: "/category"},
}

// baseView carries what every template needs.
type baseView struct {
	Strings      *content.Strings
	Settings     catalog.Settings
	Path         string
	Query        string
	SiteName     string
	HiddenParams []hiddenParam
}

// hiddenParam is one filter the nav search form must resubmit so a
// committed search keeps the rest of the URL state.
type hiddenParam struct {
	Name  string
	Value string
}

func hiddenParams(query url.Values) []hiddenParam {
	carried := urlstate.ParseFilters(query).Encode()
	carried.Del("search")
	carried.Del("page")
	names := make([]string, 0, len(carried))
	for name := range carried {
		names = append(names, name)
	}
	sort.Strings(names)
	params := make([]hiddenParam, 0, len(names))
	for _, name := range names {
		params = append(params, hiddenParam{Name: name, Value: carried.Get(name)})
	}
	return params
}

func (s *Server) base(c *gin.Context) baseView {
	settings, err := s.cachedSettings(c.Request.Context())
	if err != nil {
		// Settings are decorative; the view renders with defaults.
		log.Printf("[WARN] Settings unavailable: %v", err)
	}
	name := settings.SiteName
	if name == "" {
		name = s.strings.Site.Name.Ku
	}
	return baseView{
		Strings:      s.strings,
		Settings:     settings,
		Path:         c.Request.URL.Path,
		Query:        c.Request.URL.RawQuery,
		SiteName:     name,
		HiddenParams: hiddenParams(c.Request.URL.Query()),
	}
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	s.tmpl.Render(c, status, "error.html", gin.H{
		"Base":    s.base(c),
		"Message": message,
	})
}

// handleHome renders the landing view: hero slides, latest books, and
// the category strip.
func (s *Server) handleHome(c *gin.Context) {
	ctx := c.Request.Context()

	latest, err := s.cachedLatestBooks(ctx, 8)
	if err != nil {
		log.Printf("[ERROR] Home listing failed: %v", err)
	}
	// The strip only needs top-level names, so the flat list suffices.
	categories, err := s.cachedCategories(ctx)
	if err != nil {
		log.Printf("[ERROR] Home categories failed: %v", err)
	}

	s.tmpl.Render(c, http.StatusOK, "home.html", gin.H{
		"Base":       s.base(c),
		"Slides":     homeSlides,
		"Slide":      s.carousel.Current(),
		"Latest":     s.cardify(latest),
		"Categories": categories,
	})
}

// BookCard is the listing projection of a book.
type BookCard struct {
	Book      *catalog.Book
	Cover     string
	Author    string
	Date      string
	DetailURL string
}

func (s *Server) cardify(books []catalog.Book) []BookCard {
	cards := make([]BookCard, 0, len(books))
	for i := range books {
		b := &books[i]
		cards = append(cards, BookCard{
			Book:      b,
			Cover:     s.resolver.CoverURL(b.Thumbnail, 300, 400),
			Author:    b.AuthorText(),
			Date:      catalog.FormatKurdishDate(b.CreatedAt),
			DetailURL: "/books/" + b.ID.String(),
		})
	}
	return cards
}

// ActiveFilter is one removable filter chip above the catalog grid.
type ActiveFilter struct {
	Label     string
	RemoveURL string
}

func (s *Server) activeFilters(f urlstate.Filters, categories []catalog.Category) []ActiveFilter {
	var chips []ActiveFilter
	add := func(label string, cleared urlstate.Filters) {
		chips = append(chips, ActiveFilter{
			Label:     label,
			RemoveURL: urlstate.URL("/books", cleared.Encode()),
		})
	}
	if f.Search != "" {
		add(f.Search, f.WithSearch(""))
	}
	if f.Category != "" || f.CategoryID != "" {
		label := catalog.FindCategory(categories, f.Category, f.CategoryID)
		if label == "" {
			label = f.Category
		}
		add(label, f.ClearCategory())
	}
	if f.Subcategory != "" {
		label := catalog.FindSubcategory(categories, f.Subcategory)
		if label == "" {
			label = f.Subcategory
		}
		add(label, f.WithSubcategory(""))
	}
	if f.AuthorID != "" {
		add("#"+f.AuthorID, f.WithAuthorID(""))
	}
	return chips
}

// PageLink is one pagination button.
type PageLink struct {
	Page    int
	URL     string
	Current bool
}

func (s *Server) pageLinks(f urlstate.Filters, meta catalog.Meta) []PageLink {
	if meta.TotalPages == nil || *meta.TotalPages < 2 {
		return nil
	}
	window := PageWindow(f.Page, *meta.TotalPages)
	links := make([]PageLink, 0, len(window))
	for _, p := range window {
		links = append(links, PageLink{
			Page:    p,
			URL:     urlstate.URL("/books", f.WithPage(p).Encode()),
			Current: p == f.Page,
		})
	}
	return links
}

// openCategory picks the single expanded sidebar branch: the selected
// category, or the parent of the selected subcategory.
func openCategory(f urlstate.Filters, categories []catalog.Category) string {
	if f.Category != "" || f.CategoryID != "" {
		for _, c := range categories {
			if catalog.MatchesCategory(c, f.Category) || (f.CategoryID != "" && string(c.ID) == f.CategoryID) {
				return c.LinkValue()
			}
		}
		return f.Category
	}
	if f.Subcategory != "" {
		for _, c := range categories {
			for _, sub := range c.Subcategories {
				if catalog.MatchesSubcategory(sub, f.Subcategory) {
					return c.LinkValue()
				}
			}
		}
	}
	return ""
}

// SidebarLink is one category or subcategory entry in the catalog
// sidebar, with its URL derived from the current filter state.
type SidebarLink struct {
	Name string
	URL  string
}

// SidebarCategory is one accordion branch; at most one is open.
type SidebarCategory struct {
	SidebarLink
	Open          bool
	Subcategories []SidebarLink
}

// sidebar projects the merged tree into links that carry the committed
// search and page size, the same way the chips and pagination do.
func (s *Server) sidebar(f urlstate.Filters, categories []catalog.Category) []SidebarCategory {
	open := openCategory(f, categories)
	out := make([]SidebarCategory, 0, len(categories))
	for _, c := range categories {
		branch := SidebarCategory{
			SidebarLink: SidebarLink{
				Name: c.Name,
				URL:  urlstate.URL("/books", f.WithCategory(c.LinkValue()).Encode()),
			},
			Open: c.LinkValue() == open,
		}
		if branch.Open {
			for _, sub := range c.Subcategories {
				branch.Subcategories = append(branch.Subcategories, SidebarLink{
					Name: sub.Name,
					URL:  urlstate.URL("/books", f.WithSubcategory(sub.LinkValue()).Encode()),
				})
			}
		}
		out = append(out, branch)
	}
	return out
}

// handleBooks renders the catalog: the URL is the filter state, the
// sidebar is the merged category tree, and the grid is the cached page.
func (s *Server) handleBooks(c *gin.Context) {
	ctx := c.Request.Context()
	f := urlstate.ParseFilters(c.Request.URL.Query())

	categories, catErr := s.cachedMergedCategories(ctx)
	if catErr != nil {
		log.Printf("[ERROR] Category sidebar failed: %v", catErr)
	}

	page, err := s.cachedBooks(ctx, f, c.Query("retry") == "1")
	if err != nil {
		log.Printf("[ERROR] Book listing failed: %v", err)
		retry := f.Encode()
		retry.Set("retry", "1")
		s.tmpl.Render(c, http.StatusBadGateway, "books.html", gin.H{
			"Base":      s.base(c),
			"Filters":   f,
			"Sidebar":   s.sidebar(f, categories),
			"LoadError": true,
			"RetryURL":  urlstate.URL("/books", retry),
		})
		return
	}

	s.tmpl.Render(c, http.StatusOK, "books.html", gin.H{
		"Base":          s.base(c),
		"Filters":       f,
		"Sidebar":       s.sidebar(f, categories),
		"Books":         s.cardify(page.Data),
		"Meta":          page.Meta,
		"Pages":         s.pageLinks(f, page.Meta),
		"ActiveFilters": s.activeFilters(f, categories),
		"ActiveCount":   f.ActiveCount(),
		"ClearAllURL":   urlstate.URL("/books", f.ClearAll().Encode()),
		"ShareURL":      urlstate.URL("/books", f.Encode()),
	})
}

// PersonRow is one labelled name line on the detail view.
type PersonRow struct {
	Label string
	Name  string
}

// handleBookDetail renders one book with its specification groups and
// people rows.
func (s *Server) handleBookDetail(c *gin.Context) {
	id := c.Param("id")
	book, err := s.cachedBook(c.Request.Context(), id)
	if err != nil {
		log.Printf("[ERROR] Book %s failed: %v", id, err)
		s.renderError(c, http.StatusNotFound, s.strings.Book.LoadError.Ku)
		return
	}

	var people []PersonRow
	if v := book.AuthorText(); v != "" {
		people = append(people, PersonRow{Label: s.strings.Book.Author.Ku, Name: v})
	}
	if v := book.TranslatorText(); v != "" {
		people = append(people, PersonRow{Label: s.strings.Book.Translator.Ku, Name: v})
	}
	if v := book.EditorText(); v != "" {
		people = append(people, PersonRow{Label: s.strings.Book.Editor.Ku, Name: v})
	}

	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	pageURL := scheme + "://" + c.Request.Host + c.Request.URL.Path

	s.tmpl.Render(c, http.StatusOK, "book.html", gin.H{
		"Base":        s.base(c),
		"Book":        book,
		"Cover":       s.resolver.CoverURL(book.Thumbnail, 600, 800),
		"People":      people,
		"SpecGroups":  book.SpecGroups(),
		"Date":        catalog.FormatKurdishDate(book.CreatedAt),
		"DownloadURL": "/books/" + book.ID.String() + "/download",
		"ShareURL":    "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(pageURL),
		"FileLabel":   book.FileLabel(),
		"MetaTitle":   book.DisplayMetaTitle(),
		"MetaDesc":    book.DisplayMetaDescription(),
	})
}

// handleCategories renders the category index as an accordion; at most
// one branch is open, chosen by the open query parameter.
func (s *Server) handleCategories(c *gin.Context) {
	categories, err := s.cachedMergedCategories(c.Request.Context())
	if err != nil {
		log.Printf("[ERROR] Categories failed: %v", err)
		s.renderError(c, http.StatusBadGateway, s.strings.Catalog.LoadError.Ku)
		return
	}

	open := c.Query("open")
	s.tmpl.Render(c, http.StatusOK, "categories.html", gin.H{
		"Base":       s.base(c),
		"Categories": categories,
		"Open":       open,
	})
}

// handleCategory redirects a category link into the catalog filter
// state that selects it.
func (s *Server) handleCategory(c *gin.Context) {
	value := c.Param("id")
	f := urlstate.Filters{Page: 1, PerPage: urlstate.DefaultPerPage}.WithCategory(value)
	c.Redirect(http.StatusFound, urlstate.URL("/books", f.Encode()))
}

// handleAuthors renders the author directory, narrowed by fuzzy match
// when a q parameter is present.
func (s *Server) handleAuthors(c *gin.Context) {
	authors, err := s.cachedAuthors(c.Request.Context())
	if err != nil {
		log.Printf("[ERROR] Authors failed: %v", err)
		s.renderError(c, http.StatusBadGateway, s.strings.Catalog.LoadError.Ku)
		return
	}

	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		matched := make([]catalog.Author, 0, len(authors))
		for _, a := range authors {
			if fuzzy.MatchNormalizedFold(q, a.Name) {
				matched = append(matched, a)
			}
		}
		authors = matched
	}
	sort.SliceStable(authors, func(i, j int) bool {
		return authors[i].Name < authors[j].Name
	})

	s.tmpl.Render(c, http.StatusOK, "authors.html", gin.H{
		"Base":    s.base(c),
		"Authors": authors,
		"Q":       q,
	})
}

// handleAuthor redirects an author link into the catalog filtered by
// that author.
func (s *Server) handleAuthor(c *gin.Context) {
	id := c.Param("id")
	f := urlstate.Filters{Page: 1, PerPage: urlstate.DefaultPerPage}.WithAuthorID(id)
	c.Redirect(http.StatusFound, urlstate.URL("/books", f.Encode()))
}

// handleSearch folds the legacy search route into the catalog. The
// committed term replaces the search filter; every other filter in the
// incoming query survives the commit, and the page resets with it.
func (s *Server) handleSearch(c *gin.Context) {
	f := urlstate.ParseFilters(c.Request.URL.Query())
	f = f.WithSearch(strings.TrimSpace(f.Search))
	c.Redirect(http.StatusMovedPermanently, urlstate.URL("/books", f.Encode()))
}

func (s *Server) handleAbout(c *gin.Context) {
	s.tmpl.Render(c, http.StatusOK, "about.html", gin.H{
		"Base":     s.base(c),
		"Sections": s.strings.About.Sections,
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	s.tmpl.Render(c, http.StatusNotFound, "notfound.html", gin.H{
		"Base": s.base(c),
	})
}

// handleMenuPartial renders the mega-menu fragment. Query parameters
// replay the pointer interaction against the menu state machine so the
// fragment reflects hover, leave, and escape.
func (s *Server) handleMenuPartial(c *gin.Context) {
	m := menu.NewMachine()
	switch c.Query("event") {
	case "enter":
		if id := c.Query("category"); id != "" {
			m.EnterCategory(id)
		} else {
			m.Enter()
		}
	case "leave":
		m.Leave()
	case "escape":
		m.Escape()
	}
	open, categoryID := m.State()
	if !open {
		c.Status(http.StatusNoContent)
		return
	}

	categories, err := s.cachedMergedCategories(c.Request.Context())
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}
	s.tmpl.Render(c, http.StatusOK, "menu.html", gin.H{
		"Categories": categories,
		"Active":     categoryID,
	})
}

// file: cmd/check.go
// version: 1.0.0
// guid: e4f91eb5-f520-441d-9ee1-4922417829eb

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// checkCmd probes the upstream API endpoints the views depend on and
// reports what each one returned.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the upstream library API",
	Long:  `Check calls each upstream endpoint once and reports reachability and shape.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newCatalogService()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		fmt.Printf("Upstream API: %s\n\n", svc.Client().BaseURL())

		failures := 0
		probe := func(name string, fn func() (string, error)) {
			detail, err := fn()
			if err != nil {
				failures++
				fmt.Printf("  FAIL  %-12s %v\n", name, err)
				return
			}
			fmt.Printf("  OK    %-12s %s\n", name, detail)
		}

		probe("books", func() (string, error) {
			page, err := svc.GetBooks(ctx, nil)
			if err != nil {
				return "", err
			}
			pages := "unknown"
			if page.Meta.TotalPages != nil {
				pages = fmt.Sprintf("%d", *page.Meta.TotalPages)
			}
			return fmt.Sprintf("%d books, %s pages", len(page.Data), pages), nil
		})
		probe("categories", func() (string, error) {
			set, err := svc.GetCategoriesAll(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d categories, %d subcategories", len(set.Categories), len(set.Subcategories)), nil
		})
		probe("authors", func() (string, error) {
			authors, err := svc.GetAuthors(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d authors", len(authors)), nil
		})
		probe("settings", func() (string, error) {
			settings, err := svc.GetSettings(ctx)
			if err != nil {
				return "", err
			}
			if settings.SiteName == "" {
				return "no site name set", nil
			}
			return settings.SiteName, nil
		})

		if failures > 0 {
			return fmt.Errorf("%d endpoint(s) failed", failures)
		}
		return nil
	},
}

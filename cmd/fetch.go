// file: cmd/fetch.go
// version: 1.1.0
// guid: 41d8a7d9-d27e-478e-a8eb-a78c73ae4051

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// fetchCmd downloads a book's file to the local disk, following the
// same two-variant descriptor the web download route uses.
var fetchCmd = &cobra.Command{
	Use:   "fetch <book-id>",
	Short: "Download a book's file to disk",
	Long:  `Fetch resolves a book's download descriptor and saves the file locally.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID := args[0]
		outDir, _ := cmd.Flags().GetString("out")

		svc := newCatalogService()
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		desc, err := svc.DownloadBook(ctx, bookID)
		if err != nil {
			return fmt.Errorf("failed to resolve download: %w", err)
		}
		if desc.Empty() {
			return fmt.Errorf("book %s has no downloadable file", bookID)
		}

		filename := desc.Filename
		if filename == "" {
			filename = fmt.Sprintf("book-%s.pdf", bookID)
		}
		target := filepath.Join(outDir, filename)

		if desc.URL != "" {
			return fetchFromURL(ctx, desc.URL, target)
		}
		return saveBlob(desc.Data, target)
	},
}

func init() {
	fetchCmd.Flags().String("out", ".", "directory to save the file into")
}

func fetchFromURL(ctx context.Context, url, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(target))
	if _, err := io.Copy(io.MultiWriter(out, bar), resp.Body); err != nil {
		return fmt.Errorf("failed to save %s: %w", target, err)
	}
	fmt.Printf("Saved %s\n", target)
	return nil
}

func saveBlob(data []byte, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	bar := progressbar.DefaultBytes(int64(len(data)), filepath.Base(target))
	if _, err := io.Copy(io.MultiWriter(out, bar), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", target, err)
	}
	fmt.Printf("Saved %s\n", target)
	return nil
}

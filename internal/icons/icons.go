// Package icons downloads component icons into the output tree using a pool
// of workers. Individual failures are logged and skipped; an icon miss never
// fails the run.
package icons

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/open-edge-platform/appstream-mapper/internal/appstream"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
)

var log = logger.Logger()

const clientTimeout = 60 * time.Second

// Download is one icon to fetch: the remote URL and the local file name it is
// stored under.
type Download struct {
	URL  string
	Name string
}

// FetchIcons downloads the given icons into outputDir/icons/<size bucket>/
// with a pool of workers. It returns the number of icons fetched or already
// present.
func FetchIcons(downloads []Download, outputDir string, workers int) (int, error) {
	destDir := filepath.Join(outputDir, "icons", appstream.IconSizeBucket)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create icon dir %s: %w", destDir, err)
	}
	if workers < 1 {
		workers = 1
	}

	total := len(downloads)
	jobs := make(chan Download, total)
	client := &http.Client{Timeout: clientTimeout}
	var ok atomic.Int64
	var wg sync.WaitGroup

	bar := progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionSpinnerType(10),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				bar.Describe(d.Name)

				destPath := filepath.Join(destDir, d.Name)
				if fi, err := os.Stat(destPath); err == nil && fi.Size() > 0 {
					ok.Add(1)
					if err := bar.Add(1); err != nil {
						log.Errorf("failed to add to progress bar: %v", err)
					}
					continue
				}

				if err := fetchOne(client, d.URL, destPath); err != nil {
					log.Warnf("icon %s failed: %v", d.Name, err)
				} else {
					ok.Add(1)
				}
				if err := bar.Add(1); err != nil {
					log.Errorf("failed to add to progress bar: %v", err)
				}
			}
		}()
	}

	for _, d := range downloads {
		jobs <- d
	}
	close(jobs)

	wg.Wait()
	if err := bar.Finish(); err != nil {
		log.Errorf("failed to finish progress bar: %v", err)
	}

	fetched := int(ok.Load())
	log.Infof("icons: %d of %d available", fetched, total)
	return fetched, nil
}

func fetchOne(client *http.Client, url, destPath string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return err
	}
	return nil
}

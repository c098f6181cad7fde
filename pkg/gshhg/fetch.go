package gshhg

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"
)

// ArchiveURL is the published binary shoreline archive.
const ArchiveURL = "https://www.soest.hawaii.edu/pwessel/gshhg/gshhg-bin-2.3.7.zip"

// DownloadPage announces the data set, for pointing users at.
const DownloadPage = "https://www.soest.hawaii.edu/pwessel/gshhg/"

// Fetch downloads the shoreline archive and unpacks the five gshhs_*.b
// files into dir. If all five are already present nothing is downloaded.
// The archive is over 100 MB so it lands in a temp file first.
func Fetch(ctx context.Context, dir string) error {
	missing := 0
	for _, r := range []Resolution{Crude, Low, Intermediate, High, Full} {
		if _, err := os.Stat(filepath.Join(dir, r.Filename())); err != nil {
			missing++
		}
	}
	if missing == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "gshhg-*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	err = retry.Do(func() error {
		return download(ctx, ArchiveURL, tmp)
	},
		retry.Context(ctx),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(1500*time.Millisecond),
		retry.Attempts(4),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("shoreline download retry %d: %v", n, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("download %s: %w", ArchiveURL, err)
	}
	return Unpack(tmp.Name(), dir)
}

func download(ctx context.Context, url string, tmp *os.File) error {
	if err := tmp.Truncate(0); err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	_, err = io.Copy(tmp, resp.Body)
	return err
}

// Unpack extracts every gshhs_*.b entry from the archive into dir.
func Unpack(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()

	g := new(errgroup.Group)
	g.SetLimit(2)
	for _, f := range zr.File {
		name := filepath.Base(f.Name)
		if !strings.HasPrefix(name, "gshhs_") || !strings.HasSuffix(name, ".b") {
			continue
		}
		g.Go(func() error {
			return extract(f, filepath.Join(dir, name))
		})
	}
	return g.Wait()
}

func extract(f *zip.File, dst string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Resolver turns a configured data source into a readable local file.
// Remote sources (http, https, ftp) are downloaded into CacheDir and ZIP
// bundles are unpacked next to themselves.
type Resolver struct {
	CacheDir string
	HTTP     *HTTPFetcher
	FTP      *FTPFetcher
}

// NewResolver returns a Resolver caching downloads under cacheDir.
func NewResolver(cacheDir string, timeout time.Duration) *Resolver {
	return &Resolver{
		CacheDir: cacheDir,
		HTTP:     NewHTTPFetcher(HTTPOptions{Timeout: timeout}),
		FTP:      NewFTPFetcher(timeout),
	}
}

// IsRemote reports whether src is an http, https or ftp URL.
func IsRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return u.Host != ""
	}
	return false
}

// Resolve returns a local path for src. Local paths pass through unless they
// name a ZIP archive.
func (r *Resolver) Resolve(ctx context.Context, src string) (string, error) {
	local := src
	if IsRemote(src) {
		var err error
		if local, err = r.download(ctx, src); err != nil {
			return "", err
		}
	}

	if strings.EqualFold(filepath.Ext(local), ".zip") {
		return r.unpack(local)
	}
	return local, nil
}

func (r *Resolver) download(ctx context.Context, src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse %s", src)
	}
	if err := os.MkdirAll(r.CacheDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetcher: create cache dir")
	}
	dest := filepath.Join(r.CacheDir, cacheName(src, u))
	log := zap.L().With(zap.String("component", "fetcher"), zap.String("url", u.Redacted()), zap.String("dest", dest))

	switch strings.ToLower(u.Scheme) {
	case "ftp":
		if _, err := os.Stat(dest); err == nil {
			log.Debug("fetcher: using cached download")
			return dest, nil
		}
		n, err := r.FTP.FetchToFile(ctx, src, dest)
		if err != nil {
			return "", eris.Wrapf(err, "fetcher: download %s", u.Redacted())
		}
		log.Info("fetcher: downloaded", zap.Int64("bytes", n))
	default:
		if filepath.Ext(dest) == "" {
			if typed := findTyped(dest); typed != "" {
				dest = typed
			}
		}
		etagPath := dest + ".etag"
		var etag string
		if _, err := os.Stat(dest); err == nil {
			if b, err := os.ReadFile(etagPath); err == nil {
				etag = strings.TrimSpace(string(b))
			}
		}

		res, err := r.HTTP.FetchToFile(ctx, src, dest, etag)
		if err != nil {
			return "", eris.Wrapf(err, "fetcher: download %s", u.Redacted())
		}
		if res.NotModified {
			log.Debug("fetcher: not modified")
			return dest, nil
		}
		if filepath.Ext(dest) == "" {
			if ext := extForMediaType(res.ContentType); ext != "" {
				if err := os.Rename(dest, dest+ext); err != nil {
					return "", eris.Wrap(err, "fetcher: name download")
				}
				dest += ext
				etagPath = dest + ".etag"
			}
		}
		if res.ETag != "" {
			if err := os.WriteFile(etagPath, []byte(res.ETag), 0o644); err != nil {
				log.Warn("fetcher: write etag", zap.Error(err))
			}
		} else {
			_ = os.Remove(etagPath)
		}
		log.Info("fetcher: downloaded", zap.Int64("bytes", res.Bytes), zap.String("path", dest))
	}
	return dest, nil
}

func (r *Resolver) unpack(archive string) (string, error) {
	dir := strings.TrimSuffix(archive, filepath.Ext(archive)) + "_unzipped"
	files, err := ExtractZIP(archive, dir)
	if err != nil {
		return "", err
	}
	layer, err := PickLayer(files)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: %s", archive)
	}
	zap.L().Debug("fetcher: unpacked archive", zap.String("archive", archive), zap.String("layer", layer))
	return layer, nil
}

// cacheName keeps the URL's file name, prefixed with a short hash of the full
// URL so different sources never collide.
func cacheName(src string, u *url.URL) string {
	sum := sha256.Sum256([]byte(src))
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "download"
	}
	return hex.EncodeToString(sum[:6]) + "_" + base
}

// mediaTypeExt names downloads whose URL carries no file extension.
var mediaTypeExt = map[string]string{
	"application/zip":              ".zip",
	"application/x-zip-compressed": ".zip",
	"application/geo+json":         ".geojson",
	"application/vnd.geo+json":     ".geojson",
	"application/json":             ".json",
	"text/csv":                     ".csv",
	"text/tab-separated-values":    ".tsv",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

func extForMediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mediaTypeExt[strings.ToLower(mt)]
}

// findTyped returns an earlier download of dest that was named from its
// Content-Type, or "" if there is none.
func findTyped(dest string) string {
	for _, ext := range []string{".zip", ".geojson", ".json", ".csv", ".tsv", ".xlsx"} {
		if info, err := os.Stat(dest + ext); err == nil && !info.IsDir() {
			return dest + ext
		}
	}
	return ""
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it into place once fill succeeds.
func writeFileAtomic(path string, fill func(io.Writer) (int64, error)) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	n, err := fill(tmp)
	if err != nil {
		_ = tmp.Close()
		return n, eris.Wrap(err, "fetcher: write file")
	}
	if err := tmp.Close(); err != nil {
		return n, eris.Wrap(err, "fetcher: close file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, eris.Wrap(err, "fetcher: rename file")
	}
	return n, nil
}

package models

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"subocr/internal/logging"
)

const (
	defaultBaseURL  = "https://api.github.com"
	metadataTimeout = 30 * time.Second
	downloadTimeout = 2 * time.Minute
	userAgent       = "subocr"
)

// Sentinel errors let callers distinguish the failure stages.
var (
	ErrNoAssets      = errors.New("latest release has no assets")
	ErrAssetNotFound = errors.New("asset not found in latest release")
	ErrNoTrainedData = errors.New("archive contains no traineddata files")
)

// Release describes the latest GitHub release of a tessdata repository.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Downloader fetches release archives from the GitHub API.
type Downloader struct {
	owner   string
	repo    string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithBaseURL points the downloader at an alternate API endpoint,
// primarily for tests.
func WithBaseURL(url string) Option {
	return func(d *Downloader) {
		d.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithLogger attaches a logger for download progress.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New returns a downloader for the given GitHub repository.
func New(owner, repo string, opts ...Option) (*Downloader, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, errors.New("github owner and repo required")
	}
	downloader := &Downloader{
		owner:   owner,
		repo:    repo,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(downloader)
	}
	return downloader, nil
}

// LatestRelease fetches metadata for the repository's latest release.
func (d *Downloader) LatestRelease(ctx context.Context) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", d.baseURL, d.owner, d.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build release request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query latest release: unexpected status %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release metadata: %w", err)
	}
	return &release, nil
}

// FindAsset locates the named asset in a release. A miss lists the
// available asset names so users can correct their configuration.
func FindAsset(release *Release, name string) (Asset, error) {
	if len(release.Assets) == 0 {
		return Asset{}, ErrNoAssets
	}
	available := make([]string, 0, len(release.Assets))
	for _, asset := range release.Assets {
		if asset.Name == name {
			return asset, nil
		}
		available = append(available, asset.Name)
	}
	return Asset{}, fmt.Errorf("%w: %s (available: %s)", ErrAssetNotFound, name, strings.Join(available, ", "))
}

// Install downloads the named zip asset from the latest release and
// extracts every traineddata file into destDir, flattening any archive
// directory structure. It returns the number of files installed.
func (d *Downloader) Install(ctx context.Context, assetName, destDir string) (int, error) {
	release, err := d.LatestRelease(ctx)
	if err != nil {
		return 0, err
	}
	d.logger.Info("resolved latest release",
		logging.String("tag", release.TagName),
		logging.Int("assets", len(release.Assets)))

	asset, err := FindAsset(release, assetName)
	if err != nil {
		return 0, err
	}

	blob, err := d.download(ctx, asset)
	if err != nil {
		return 0, err
	}

	return extractTrainedData(blob, destDir, d.logger)
}

func (d *Downloader) download(ctx context.Context, asset Asset) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	d.logger.Info("downloading asset",
		logging.String("asset", asset.Name),
		logging.String("url", asset.BrowserDownloadURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download asset: unexpected status %s", resp.Status)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read asset body: %w", err)
	}
	return blob, nil
}

func extractTrainedData(blob []byte, destDir string, logger *slog.Logger) (int, error) {
	reader, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create tessdata directory: %w", err)
	}

	extracted := 0
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		base := path.Base(strings.ReplaceAll(file.Name, "\\", "/"))
		if !strings.HasSuffix(base, ".traineddata") {
			continue
		}
		if err := extractFile(file, filepath.Join(destDir, base)); err != nil {
			return extracted, err
		}
		logger.Info("installed traineddata", logging.String("file", base))
		extracted++
	}

	if extracted == 0 {
		return 0, ErrNoTrainedData
	}
	return extracted, nil
}

func extractFile(file *zip.File, target string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s in archive: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %s: %w", target, err)
	}
	return nil
}

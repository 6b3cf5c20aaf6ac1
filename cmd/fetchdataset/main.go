// Dataset subset downloader
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const hubBase = "https://huggingface.co"

func main() {
	var (
		repoID    = flag.String("repo-id", "", "dataset repository id, e.g. user/scenes")
		subset    = flag.String("subset", "", "path prefix inside the repository to fetch (empty fetches everything)")
		localDir  = flag.String("local-dir", ".", "directory the files are written under")
		revision  = flag.String("revision", "main", "branch, tag or commit to fetch")
		debugMode = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logger := initLogger(*debugMode)

	if *repoID == "" {
		logger.Error("-repo-id is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetcher{
		client: &http.Client{Timeout: 5 * time.Minute},
		log:    logger,
	}
	n, err := f.fetch(ctx, *repoID, *revision, *subset, *localDir)
	if err != nil {
		logger.WithError(err).WithField("downloaded", n).Error("Fetch failed")
		os.Exit(1)
	}
	logger.WithField("downloaded", n).Info("Fetch finished")
}

type fetcher struct {
	client *http.Client
	log    *logrus.Logger
}

// treeEntry is one record of the hub's dataset tree listing.
type treeEntry struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// fetch lists the repository tree under subset and downloads every file into
// localDir, preserving the in-repository layout.
func (f *fetcher) fetch(ctx context.Context, repoID, revision, subset, localDir string) (int, error) {
	entries, err := f.listTree(ctx, repoID, revision, subset)
	if err != nil {
		return 0, err
	}

	downloaded := 0
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return downloaded, err
		}
		if err := f.download(ctx, repoID, revision, e, localDir); err != nil {
			return downloaded, err
		}
		downloaded++
	}
	return downloaded, nil
}

// listTree walks the repository tree recursively, descending into
// directories so nested session layouts come back as flat file entries.
func (f *fetcher) listTree(ctx context.Context, repoID, revision, prefix string) ([]treeEntry, error) {
	listURL := fmt.Sprintf("%s/api/datasets/%s/tree/%s", hubBase, repoID, url.PathEscape(revision))
	if prefix != "" {
		listURL += "/" + prefix
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building tree request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", listURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("listing %s: unexpected status %s", listURL, resp.Status)
	}

	var entries []treeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "decoding tree listing")
	}

	var files []treeEntry
	for _, e := range entries {
		if e.Type == "directory" {
			nested, err := f.listTree(ctx, repoID, revision, e.Path)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
			continue
		}
		files = append(files, e)
	}
	return files, nil
}

// download streams one repository file to disk. Partial files are written to
// a temporary name and renamed only once complete.
func (f *fetcher) download(ctx context.Context, repoID, revision string, e treeEntry, localDir string) error {
	fileURL := fmt.Sprintf("%s/datasets/%s/resolve/%s/%s",
		hubBase, repoID, url.PathEscape(revision), e.Path)

	target := filepath.Join(localDir, filepath.FromSlash(e.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", target)
	}

	if info, err := os.Stat(target); err == nil && info.Size() == e.Size {
		f.log.WithField("path", e.Path).Debug("Already downloaded, skipping")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return errors.Wrap(err, "building download request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "downloading %s", e.Path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("downloading %s: unexpected status %s", e.Path, resp.Status)
	}

	tmp := target + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "creating %s", tmp)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "closing %s", tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		return errors.Wrapf(err, "renaming %s", tmp)
	}

	f.log.WithFields(logrus.Fields{
		"path": e.Path,
		"name": path.Base(e.Path),
		"size": e.Size,
	}).Info("Downloaded file")
	return nil
}

func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}

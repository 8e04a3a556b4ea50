package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"capitol/internal/common"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Updater periodically downloads a fresh profile dataset and replaces the
// file the repository reads. Execute is meant to be called from the main
// cycle; the embedded timed executor makes sure the download only happens
// once per refresh interval. Authentication against the game site is
// handled upstream, the updater only sees the exported JSON endpoint
type Updater struct {
	client   *resty.Client
	url      string
	path     string
	executor common.TimedExecutor
}

func NewUpdater(url string, path string, refresh time.Duration) *Updater {
	updater := &Updater{
		client: resty.New().SetTimeout(30 * time.Second),
		url:    url,
		path:   path,
	}
	updater.executor = common.NewTimedExecutor(refresh, updater.refresh)
	return updater
}

// Execute refreshes the dataset if the refresh interval has lapsed
func (u *Updater) Execute() {
	u.executor.Execute()
}

func (u *Updater) refresh() {
	if u.url == "" {
		return
	}
	if err := u.download(); err != nil {
		log.Warn().Msg(fmt.Sprintf("Profile refresh failed: %s", err))
	}
}

func (u *Updater) download() error {
	response, err := u.client.R().Get(u.url)
	if err != nil {
		return errors.Wrap(err, "fetch profile dataset")
	}
	if response.StatusCode() != 200 {
		return fmt.Errorf("fetch profile dataset: status %d", response.StatusCode())
	}

	// Only a dataset that decodes cleanly may replace the current file
	var dataset []Profile
	if err := json.Unmarshal(response.Body(), &dataset); err != nil {
		return errors.Wrap(err, "decode profile dataset")
	}

	// Write to a temp file first so readers never see a partial dataset
	tmp, err := os.CreateTemp(filepath.Dir(u.path), "profiles-*.json")
	if err != nil {
		return errors.Wrap(err, "create temp dataset")
	}
	if _, err := tmp.Write(response.Body()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write temp dataset")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close temp dataset")
	}
	if err := os.Rename(tmp.Name(), u.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "replace dataset")
	}
	log.Debug().Msg(fmt.Sprintf("Profile dataset refreshed with %d profiles", len(dataset)))
	return nil
}

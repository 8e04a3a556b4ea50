package profiles

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Repository reads the profile dataset from disk. The file is re-read on
// every call, so queries always see the updater's latest write. A missing
// or corrupt file degrades to an empty dataset, never to an error, so the
// aggregation layer always has something to chew on
type Repository struct {
	path string
}

func NewRepository(path string) Repository {
	return Repository{path: path}
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Load() []Profile {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Msg(fmt.Sprintf("Could not read profile dataset %s: %s", r.path, err))
		}
		return []Profile{}
	}

	var dataset []Profile
	if err := json.Unmarshal(data, &dataset); err != nil {
		log.Warn().Msg(fmt.Sprintf("Profile dataset %s is corrupt: %s", r.path, err))
		return []Profile{}
	}
	return dataset
}

package loader

import (
	"strings"

	"github.com/blobnav/blobnav/internal/logger"
	"github.com/blobnav/blobnav/pkg/catalog"
	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// sanitizeRecords drops records the rest of the system cannot represent.
//
// A record is dropped when:
//   - struct validation fails (missing name or URL, negative length)
//   - its name starts with "/" (paths are relative to the container root)
//   - its name was already seen (the first occurrence wins)
//
// Dropping is deliberate: one malformed record in a listing of thousands
// should not take the whole listing down.
func sanitizeRecords(records []catalog.Record) []catalog.Record {
	clean := make([]catalog.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	dropped := 0

	for _, record := range records {
		if err := validate.Struct(&record); err != nil {
			logger.Warn("Skipping invalid record %q: %v", record.Name, err)
			dropped++
			continue
		}
		if strings.HasPrefix(record.Name, "/") {
			logger.Warn("Skipping record with absolute path %q", record.Name)
			dropped++
			continue
		}
		if _, dup := seen[record.Name]; dup {
			logger.Warn("Skipping duplicate record %q", record.Name)
			dropped++
			continue
		}

		seen[record.Name] = struct{}{}
		clean = append(clean, record)
	}

	if dropped > 0 {
		logger.Warn("Dropped %d of %d records from listing", dropped, len(records))
	}
	return clean
}

package export

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/cost-reporter/pkg/models/domain"
)

// WriteJSON serializes the whole report to an indented JSON file.
func WriteJSON(report *domain.CostReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

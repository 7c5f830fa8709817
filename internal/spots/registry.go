package spots

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kfk18/ScubaInstructionAgent/internal/models"
)

// Registry holds the diving spots loaded from the spot file.
// It is read-only after Load and safe to share.
type Registry struct {
	byName map[string]models.Spot
	names  []string
}

// Load reads the spot CSV file. The header must contain name, lat and lon
// columns; extra columns are ignored. When the same name appears on more
// than one row, the last row wins.
func Load(path string) (*Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spot file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of spot file %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.TrimSpace(col)] = i
	}
	for _, required := range []string{"name", "lat", "lon"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("spot file %s is missing required column %q", path, required)
		}
	}

	reg := &Registry{byName: make(map[string]models.Spot)}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read spot file %s: %w", path, err)
		}

		name := strings.TrimSpace(record[cols["name"]])
		if name == "" {
			return nil, fmt.Errorf("spot file %s line %d: empty name", path, line)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[cols["lat"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("spot file %s line %d: invalid lat: %w", path, line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[cols["lon"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("spot file %s line %d: invalid lon: %w", path, line, err)
		}

		if _, seen := reg.byName[name]; !seen {
			reg.names = append(reg.names, name)
		}
		reg.byName[name] = models.Spot{Name: name, Latitude: lat, Longitude: lon}
	}

	if len(reg.names) == 0 {
		return nil, fmt.Errorf("spot file %s contains no spots", path)
	}

	return reg, nil
}

// Lookup returns the spot registered under name.
func (r *Registry) Lookup(name string) (models.Spot, bool) {
	spot, ok := r.byName[name]
	return spot, ok
}

// Names returns the spot names in file order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

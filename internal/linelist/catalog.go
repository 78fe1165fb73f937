// Package linelist parses HITRAN-style fixed-width molecular transition catalogs.
//
// Catalogs in the wild contain truncated and corrupt rows, so parsing is row-tolerant:
// a bad row is skipped with a reason and the load continues. Only structural problems
// (unreadable input, no parsable fields at all) fail the whole load.
package linelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/rs/zerolog/log"
)

// ErrNoFields is wrapped by a CatalogFormatError when no row has any non-blank field.
var ErrNoFields = errors.New("no parsable columns")

// CatalogFormatError reports a catalog that cannot be read or holds no parsable data.
type CatalogFormatError struct {
	Path string
	Err  error
}

func (e *CatalogFormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line catalog: %v", e.Err)
	}
	return fmt.Sprintf("line catalog %s: %v", e.Path, e.Err)
}

func (e *CatalogFormatError) Unwrap() error { return e.Err }

// Catalog holds the accepted transitions in file order.
type Catalog struct {
	Lines   []models.LineRecord
	Skipped map[SkipReason]int
}

// ForMolecule returns the transitions for one molecule ID, in catalog order.
func (c *Catalog) ForMolecule(id int) []models.LineRecord {
	var out []models.LineRecord
	for _, l := range c.Lines {
		if l.MoleculeID == id {
			out = append(out, l)
		}
	}
	return out
}

// SkippedTotal returns the number of dropped rows.
func (c *Catalog) SkippedTotal() int {
	n := 0
	for _, v := range c.Skipped {
		n += v
	}
	return n
}

// Parse reads a fixed-width catalog. Text from a '#' to the end of the line is a
// comment, wherever the '#' sits; column positions before it are kept.
func Parse(r io.Reader) (*Catalog, error) {
	cat := &Catalog{Skipped: map[SkipReason]int{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo, withFields := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if hasAnyField(line) {
			withFields++
		}

		rec, reason := ParseLine(line)
		if reason != SkipNone {
			cat.Skipped[reason]++
			log.Debug().Int("line", lineNo).Str("reason", reason.String()).Msg("Skipping catalog row")
			continue
		}
		cat.Lines = append(cat.Lines, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &CatalogFormatError{Err: err}
	}
	if withFields == 0 {
		return nil, &CatalogFormatError{Err: ErrNoFields}
	}

	log.Info().Int("lines", len(cat.Lines)).Int("skipped", cat.SkippedTotal()).Msg("Parsed line catalog")
	return cat, nil
}

// Open parses the catalog at path.
func Open(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &CatalogFormatError{Path: path, Err: err}
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		var cfe *CatalogFormatError
		if errors.As(err, &cfe) {
			cfe.Path = path
		}
		return nil, err
	}
	return cat, nil
}

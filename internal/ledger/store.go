package ledger

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
)

//go:embed schema/ledger.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// State classifies what was found at the ledger path.
type State int

const (
	// Missing means no ledger file exists.
	Missing State = iota
	// Corrupt means a file exists but is not a usable ledger.
	Corrupt
	// Valid means the ledger parsed and passed schema validation.
	Valid
)

func (s State) String() string {
	switch s {
	case Missing:
		return "missing"
	case Corrupt:
		return "corrupt"
	case Valid:
		return "valid"
	}
	return "unknown"
}

// Store reads and writes ledgers on a filesystem. It holds no state between calls.
type Store struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewStore returns a Store over fs.
func NewStore(fs afero.Fs, logger zerolog.Logger) *Store {
	return &Store{fs: fs, logger: logger}
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("ledger.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("ledger.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks raw ledger bytes against the embedded schema.
func Validate(data []byte) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing ledger JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("validating ledger: %w", err)
	}
	return nil
}

// Inspect reads the ledger at path and reports its state. The manifest is
// non-nil only when the state is Valid.
func (s *Store) Inspect(path string) (State, *Manifest) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Missing, nil
		}
		s.logger.Warn().Err(err).Str("path", path).Msg("ledger unreadable, ignoring it")
		return Corrupt, nil
	}

	if err := Validate(data); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("ledger is not usable, ignoring it")
		return Corrupt, nil
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("ledger is not usable, ignoring it")
		return Corrupt, nil
	}
	if m.Files == nil {
		m.Files = make(map[string]string)
	}
	s.logger.Debug().Str("path", path).Int("files", len(m.Files)).Msg("loaded ledger")
	return Valid, &m
}

// Load returns the ledger at path, or nil when it is missing or unusable.
func (s *Store) Load(path string) *Manifest {
	_, m := s.Inspect(path)
	return m
}

// Persist writes m to path through a temporary file renamed over the
// target, so an interrupted write leaves the previous ledger intact.
func (s *Store) Persist(path string, m *Manifest) error {
	if m.Files == nil {
		m.Files = make(map[string]string)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".sdd-manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = s.fs.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing ledger %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Int("files", len(m.Files)).Msg("wrote ledger")
	return nil
}

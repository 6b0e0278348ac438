package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/fHachenberg/groupq/internal/engine"
	"github.com/fHachenberg/groupq/internal/ir"
	"github.com/fHachenberg/groupq/internal/queryir"
)

// LoadMode controls how errors are handled during definition loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the databases built from a definitions directory.
//
// Loading is configuration input, not persistence: the databases live in
// memory and nothing is ever written back.
type LoadResult struct {
	Identifiers engine.IdentifierDB
	Groups      engine.GroupDB
	FileCount   int // Number of definition files found
}

// LoadError represents an error that occurred during definition loading.
type LoadError struct {
	Code    string
	Message string
	Path    string // offending file or document path if available
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No definition files found
	ErrCodeLoadFailed    = "E004" // CUE/YAML load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeBadDefinition = "E007" // Malformed identifier or query definition
)

// LoadDefs loads identifier and group definitions from a directory of
// .cue and/or .yaml files.
//
// All CUE files in the directory form one CUE instance (CUE unifies them);
// YAML files are loaded one by one. Identifier keys and group labels must
// be unique across the whole directory.
//
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadDefs(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definitions directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing definitions directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, yamlFiles, err := findDefFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles)+len(yamlFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no definition files (.cue, .yaml) found in %s", dir)}}
	}

	result := &LoadResult{
		Identifiers: engine.IdentifierDB{},
		Groups:      engine.GroupDB{},
		FileCount:   len(cueFiles) + len(yamlFiles),
	}
	var errs []error

	if len(cueFiles) > 0 {
		errs = append(errs, loadCUEDefs(dir, result, mode)...)
		if mode == LoadModeFailFast && len(errs) > 0 {
			return result, errs
		}
	}

	for _, path := range yamlFiles {
		errs = append(errs, loadYAMLDefs(path, result, mode)...)
		if mode == LoadModeFailFast && len(errs) > 0 {
			return result, errs
		}
	}

	if len(result.Identifiers) == 0 && len(result.Groups) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no identifiers or groups found in definitions"})
	}

	return result, errs
}

// findDefFiles walks the directory and returns the .cue and .yaml/.yml
// file paths.
func findDefFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
		return nil
	})
	return cueFiles, yamlFiles, err
}

// loadCUEDefs loads every CUE file in dir as one instance and extracts the
// identifiers and groups fields.
func loadCUEDefs(dir string, result *LoadResult, mode LoadMode) []error {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	var errs []error

	idsVal := value.LookupPath(cue.ParsePath("identifiers"))
	if idsVal.Exists() {
		iter, iterErr := idsVal.Fields()
		if iterErr != nil {
			return append(errs, &LoadError{Code: ErrCodeBadDefinition, Message: fmt.Sprintf("iterating identifiers: %v", iterErr)})
		}
		for iter.Next() {
			label := iter.Label()
			id, parseErr := strconv.ParseInt(label, 10, 64)
			if parseErr != nil {
				errs = append(errs, &LoadError{Code: ErrCodeBadDefinition, Path: "identifiers." + label, Message: "identifier key must be an integer"})
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			idx, intErr := iter.Value().Int64()
			if intErr != nil {
				errs = append(errs, &LoadError{Code: ErrCodeBadDefinition, Path: "identifiers." + label, Message: fmt.Sprintf("index must be an integer: %v", intErr)})
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			if err := addIdentifier(result, ir.Identifier(id), ir.Index(idx)); err != nil {
				errs = append(errs, err)
				if mode == LoadModeFailFast {
					return errs
				}
			}
		}
	}

	groupsVal := value.LookupPath(cue.ParsePath("groups"))
	if groupsVal.Exists() {
		iter, iterErr := groupsVal.Fields()
		if iterErr != nil {
			return append(errs, &LoadError{Code: ErrCodeBadDefinition, Message: fmt.Sprintf("iterating groups: %v", iterErr)})
		}
		for iter.Next() {
			label := iter.Label()
			var node any
			if decodeErr := iter.Value().Decode(&node); decodeErr != nil {
				errs = append(errs, &LoadError{Code: ErrCodeBadDefinition, Path: "groups." + label, Message: fmt.Sprintf("decoding query: %v", decodeErr)})
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			if err := addGroup(result, ir.GroupLabel(label), node); err != nil {
				errs = append(errs, err)
				if mode == LoadModeFailFast {
					return errs
				}
			}
		}
	}

	return errs
}

// defsDoc is the YAML document shape of a definition file.
type defsDoc struct {
	Identifiers map[int64]int64 `yaml:"identifiers"`
	Groups      map[string]any  `yaml:"groups"`
}

// loadYAMLDefs loads one YAML definition file.
func loadYAMLDefs(path string, result *LoadResult, mode LoadMode) []error {
	data, err := os.ReadFile(path)
	if err != nil {
		return []error{&LoadError{Code: ErrCodeLoadFailed, Path: path, Message: fmt.Sprintf("reading file: %v", err)}}
	}

	var doc defsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []error{&LoadError{Code: ErrCodeLoadFailed, Path: path, Message: fmt.Sprintf("parsing YAML: %v", err)}}
	}

	var errs []error
	for id, idx := range doc.Identifiers {
		if err := addIdentifier(result, ir.Identifier(id), ir.Index(idx)); err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return errs
			}
		}
	}
	for label, node := range doc.Groups {
		if err := addGroup(result, ir.GroupLabel(label), node); err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return errs
			}
		}
	}
	return errs
}

func addIdentifier(result *LoadResult, id ir.Identifier, idx ir.Index) error {
	if _, exists := result.Identifiers[id]; exists {
		return &LoadError{
			Code:    ErrCodeBadDefinition,
			Path:    fmt.Sprintf("identifiers.%d", id),
			Message: "duplicate identifier key",
		}
	}
	result.Identifiers[id] = idx
	return nil
}

func addGroup(result *LoadResult, label ir.GroupLabel, node any) error {
	if _, exists := result.Groups[label]; exists {
		return &LoadError{
			Code:    ErrCodeBadDefinition,
			Path:    "groups." + string(label),
			Message: "duplicate group label",
		}
	}
	q, err := queryir.Decode(node)
	if err != nil {
		return &LoadError{
			Code:    ErrCodeBadDefinition,
			Path:    "groups." + string(label),
			Message: err.Error(),
		}
	}
	result.Groups[label] = q
	return nil
}

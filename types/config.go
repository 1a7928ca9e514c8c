package types

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
	"text2phenotype.com/seqtag/logger"
)

const (
	DefaultPOSBeamSize     = 3
	DefaultChunkerBeamSize = 10
	DefaultNameBeamSize    = 3
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

type ModelConfig struct {
	// Local path, or s3://key for models kept in the storage bucket.
	Model    string `yaml:"model" json:"model"`
	BeamSize int    `yaml:"beam_size" json:"beam_size"`
}

type POSConfig struct {
	ModelConfig   `yaml:",inline"`
	TagDictionary string `yaml:"tag_dictionary" json:"tag_dictionary"`
	Alternatives  int    `yaml:"alternatives" json:"alternatives"`
}

type NameFinderConfig struct {
	ModelConfig `yaml:",inline"`
	Type        string `yaml:"type" json:"type"`
}

type Configuration struct {
	Name        string             `json:"name"`
	FilePath    string             `json:"file_path"`
	POS         POSConfig          `yaml:"pos" json:"pos"`
	Chunker     *ModelConfig       `yaml:"chunker" json:"chunker,omitempty"`
	NameFinders []NameFinderConfig `yaml:"name_finders" json:"name_finders,omitempty"`
	LenientEval bool               `yaml:"lenient_eval" json:"lenient_eval"`
}

// Validate checks required fields and fills default beam sizes.
func (cfg *Configuration) Validate() error {
	if len(cfg.POS.Model) == 0 {
		return fmt.Errorf("%w %q: pos model is required", ErrInvalidConfiguration, cfg.Name)
	}
	if cfg.POS.Alternatives < 0 {
		return fmt.Errorf("%w %q: alternatives must not be negative", ErrInvalidConfiguration, cfg.Name)
	}
	if err := fillBeamSize(&cfg.POS.ModelConfig, DefaultPOSBeamSize); err != nil {
		return fmt.Errorf("%w %q: pos: %s", ErrInvalidConfiguration, cfg.Name, err)
	}

	if cfg.Chunker != nil {
		if len(cfg.Chunker.Model) == 0 {
			return fmt.Errorf("%w %q: chunker model is required", ErrInvalidConfiguration, cfg.Name)
		}
		if err := fillBeamSize(cfg.Chunker, DefaultChunkerBeamSize); err != nil {
			return fmt.Errorf("%w %q: chunker: %s", ErrInvalidConfiguration, cfg.Name, err)
		}
	}

	seen := make(map[string]bool)
	for i := range cfg.NameFinders {
		finder := &cfg.NameFinders[i]
		if len(finder.Model) == 0 {
			return fmt.Errorf("%w %q: name finder %d model is required", ErrInvalidConfiguration, cfg.Name, i)
		}
		if seen[finder.Type] {
			return fmt.Errorf("%w %q: duplicate name finder type %q", ErrInvalidConfiguration, cfg.Name, finder.Type)
		}
		seen[finder.Type] = true
		if err := fillBeamSize(&finder.ModelConfig, DefaultNameBeamSize); err != nil {
			return fmt.Errorf("%w %q: name finder %q: %s", ErrInvalidConfiguration, cfg.Name, finder.Type, err)
		}
	}
	return nil
}

func fillBeamSize(m *ModelConfig, def int) error {
	if m.BeamSize == 0 {
		m.BeamSize = def
	}
	if m.BeamSize < 0 {
		return fmt.Errorf("beam size %d must be positive", m.BeamSize)
	}
	return nil
}

func ParseConfiguration(name string, buf []byte) (Configuration, error) {
	cfg := Configuration{Name: name}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfigurations reads every *.yaml file of dirPath. Files that fail to
// parse or validate are logged and skipped.
func LoadConfigurations(dirPath string) ([]Configuration, error) {
	cfgLogger := logger.NewLogger("LoadConfigurations")

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(fileName string) {
			defer wg.Done()
			filePath := path.Join(dirPath, fileName)
			buf, err := os.ReadFile(filePath)
			if err != nil {
				cfgLogger.Err(err).Str("file", filePath).Msg("Could not read configuration")
				return
			}
			cfg, err := ParseConfiguration(strings.TrimSuffix(fileName, ".yaml"), buf)
			if err != nil {
				cfgLogger.Err(err).Str("file", filePath).Msg("Skipping configuration")
				return
			}
			cfg.FilePath = filePath

			configChan <- cfg
		}(f.Name())
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]Configuration, 0, len(files))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Name < configs[j].Name
	})
	return configs, nil
}

package worksheet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTopic is the topic focus used when none is configured.
const DefaultTopic = "中等难度三年级混合运算（加减乘除），竖式计算只需要乘除法"

// MaxBatchSize bounds how many worksheet sets a single generation run may
// produce.
const MaxBatchSize = 20

// Counts holds the requested number of questions per category.
type Counts struct {
	Mental      int `yaml:"mental" json:"mental"`
	Vertical    int `yaml:"vertical" json:"vertical"`
	Mixed       int `yaml:"mixed" json:"mixed"`
	FillInBlank int `yaml:"fill_in_blank" json:"fill_in_blank"`
	Compare     int `yaml:"compare" json:"compare"`
	Word        int `yaml:"word" json:"word"`
}

// For returns the count requested for c.
func (n Counts) For(c Category) int {
	switch c {
	case Mental:
		return n.Mental
	case Vertical:
		return n.Vertical
	case Mixed:
		return n.Mixed
	case FillInBlank:
		return n.FillInBlank
	case Compare:
		return n.Compare
	case Word:
		return n.Word
	}
	return 0
}

// Set changes the count requested for c.
func (n *Counts) Set(c Category, v int) {
	switch c {
	case Mental:
		n.Mental = v
	case Vertical:
		n.Vertical = v
	case Mixed:
		n.Mixed = v
	case FillInBlank:
		n.FillInBlank = v
	case Compare:
		n.Compare = v
	case Word:
		n.Word = v
	}
}

// Total is the sum over all categories.
func (n Counts) Total() int {
	t := 0
	for _, c := range Categories() {
		t += n.For(c)
	}
	return t
}

// maxCount is the upper bound offered per category.
func maxCount(c Category) int {
	switch c {
	case Mental:
		return 100
	case Word:
		return 20
	}
	return 50
}

// Settings drives one generation run.
type Settings struct {
	Counts    Counts `yaml:"counts" json:"counts"`
	Topic     string `yaml:"topic" json:"topic"`
	BatchSize int    `yaml:"batch_size" json:"batch_size"`
	Grade     int    `yaml:"grade" json:"grade"`
}

// DefaultSettings returns the out-of-the-box generation settings.
func DefaultSettings() Settings {
	return Settings{
		Counts: Counts{
			Mental:   25,
			Vertical: 6,
			Mixed:    6,
			Word:     1,
		},
		Topic:     DefaultTopic,
		BatchSize: 1,
		Grade:     3,
	}
}

// Normalize clamps every field into its accepted range and fills blanks
// with defaults.
func (s Settings) Normalize() Settings {
	for _, c := range Categories() {
		s.Counts.Set(c, clamp(s.Counts.For(c), 0, maxCount(c)))
	}
	s.BatchSize = clamp(s.BatchSize, 1, MaxBatchSize)
	if s.Grade == 0 {
		s.Grade = 3
	}
	s.Grade = clamp(s.Grade, 1, 6)
	if s.Topic == "" {
		s.Topic = DefaultTopic
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LoadSettings reads settings from a YAML file. Fields absent from the file
// keep their defaults.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes YAML settings on top of the defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return s.Normalize(), nil
}

// YAML encodes the settings as a preset file.
func (s Settings) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// Package stories loads the YAML catalogue of named button prop sets that
// the CLI and the preview server render.
//
//	stories:
//	  - name: save-loading
//	    text: Save
//	    appearance: primary
//	    loading: true
package stories

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/pkg/button"
)

// Error codes for catalogue problems.
const (
	CodeInvalidStory   = "STORY_INVALID"
	CodeDuplicateStory = "STORY_DUPLICATE"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Story is one named set of button props.
type Story struct {
	Name        string            `yaml:"name" json:"name" validate:"required"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Text        string            `yaml:"text" json:"text" validate:"required"`
	Appearance  string            `yaml:"appearance,omitempty" json:"appearance,omitempty" validate:"omitempty,appearance"`
	Size        string            `yaml:"size,omitempty" json:"size,omitempty" validate:"omitempty,size"`
	Loading     bool              `yaml:"loading,omitempty" json:"loading,omitempty"`
	LoadingText string            `yaml:"loading_text,omitempty" json:"loading_text,omitempty"`
	Link        bool              `yaml:"link,omitempty" json:"link,omitempty"`
	Disabled    bool              `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Unclickable bool              `yaml:"unclickable,omitempty" json:"unclickable,omitempty"`
	Icon        bool              `yaml:"icon,omitempty" json:"icon,omitempty"`
	Wrapper     string            `yaml:"wrapper,omitempty" json:"wrapper,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// ID is the element id the story's button is rendered with.
func (s Story) ID() string {
	return "story-" + s.Name
}

// Props converts the story into button props. A fresh Ref named after the
// story is attached so callers can locate the rendered root.
func (s Story) Props() button.Props {
	p := button.Props{
		Children:      button.Text(s.Text),
		IsLoading:     s.Loading,
		IsLink:        s.Link,
		IsDisabled:    s.Disabled,
		IsUnclickable: s.Unclickable,
		ContainsIcon:  s.Icon,
		Appearance:    button.Appearance(s.Appearance),
		Size:          button.Size(s.Size),
		Ref:           button.NewRef(s.ID()),
	}
	if s.LoadingText != "" {
		p.LoadingText = button.Text(s.LoadingText)
	}
	if s.Wrapper != "" {
		p.Wrapper = button.Tag(s.Wrapper)
	}
	if len(s.Attributes) > 0 {
		p.Attributes = make(templ.Attributes, len(s.Attributes))
		for k, v := range s.Attributes {
			p.Attributes[k] = v
		}
	}
	return p
}

// Validate checks the story fields and that its props can be rendered.
func (s Story) Validate() error {
	if err := button.Validator().Struct(s); err != nil {
		return storyError(s.Name, describe(err)).WithCause(err)
	}
	if !namePattern.MatchString(s.Name) {
		return storyError(s.Name, "name must be lower-case letters, digits and dashes")
	}
	if err := s.Props().Validate(); err != nil {
		return storyError(s.Name, "props are not renderable").WithCause(err)
	}
	return nil
}

func storyError(name, msg string) *kiterrors.KitError {
	return kiterrors.NewValidationError(CodeInvalidStory, msg).
		WithComponent("stories").
		WithContext("story", name)
}

func describe(err error) string {
	ves, ok := err.(validator.ValidationErrors)
	if !ok || len(ves) == 0 {
		return err.Error()
	}
	fe := ves[0]
	return fmt.Sprintf("%s failed validation for tag '%s'", strings.ToLower(fe.Field()), fe.Tag())
}

// Catalogue is a parsed story file.
type Catalogue struct {
	Path     string    `json:"path,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
	Stories  []Story   `json:"stories"`
}

// Names returns the story names in file order.
func (c *Catalogue) Names() []string {
	names := make([]string, len(c.Stories))
	for i, s := range c.Stories {
		names[i] = s.Name
	}
	return names
}

// Find returns the named story.
func (c *Catalogue) Find(name string) (Story, bool) {
	for _, s := range c.Stories {
		if s.Name == name {
			return s, true
		}
	}
	return Story{}, false
}

type fileFormat struct {
	Stories []Story `yaml:"stories"`
}

// Parse decodes and validates a catalogue. Every invalid story is
// reported, not only the first.
func Parse(data []byte) (*Catalogue, error) {
	var file fileFormat
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, kiterrors.NewValidationError(kiterrors.ErrCodeParseFailed, "decoding story file").
			WithComponent("stories").
			WithCause(err)
	}

	collector := kiterrors.NewCollector()
	seen := make(map[string]bool, len(file.Stories))
	for _, s := range file.Stories {
		if seen[s.Name] && s.Name != "" {
			collector.Add(kiterrors.NewValidationError(CodeDuplicateStory,
				fmt.Sprintf("story %q is defined more than once", s.Name)).
				WithComponent("stories"))
			continue
		}
		seen[s.Name] = true
		collector.Add(s.Validate())
	}
	if err := collector.Err(); err != nil {
		return nil, err
	}

	return &Catalogue{Stories: file.Stories, LoadedAt: time.Now()}, nil
}

// Load reads and parses the catalogue at path.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kiterrors.ErrNotFound("story file", path).WithCause(err)
		}
		return nil, kiterrors.NewIOError(kiterrors.ErrCodeReadFailed, "reading story file", err).
			WithFile(path)
	}

	cat, err := Parse(data)
	if err != nil {
		var ke *kiterrors.KitError
		if errors.As(err, &ke) {
			ke.WithFile(path)
		}
		return nil, err
	}
	cat.Path = path
	return cat, nil
}

// Marshal encodes the catalogue back into the story file format.
func Marshal(c *Catalogue) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fileFormat{Stories: c.Stories}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate returns one story per appearance and size combination, plus
// the loading, link, disabled and icon variants of the default button.
func Generate() *Catalogue {
	var out []Story
	for _, a := range button.Appearances() {
		for _, s := range button.Sizes() {
			out = append(out, Story{
				Name:       a.Slug() + "-" + string(s),
				Text:       "Button",
				Appearance: string(a),
				Size:       string(s),
			})
		}
	}
	out = append(out,
		Story{Name: "loading", Text: "Save", Loading: true},
		Story{Name: "loading-custom-text", Text: "Pay", Loading: true, LoadingText: "Paying..."},
		Story{Name: "link", Text: "Go", Link: true, Attributes: map[string]string{"href": "/x"}},
		Story{Name: "link-disabled", Text: "Go", Link: true, Disabled: true, Attributes: map[string]string{"href": "/x"}},
		Story{Name: "disabled", Text: "Nope", Disabled: true},
		Story{Name: "unclickable", Text: "Paying", Unclickable: true},
		Story{Name: "icon", Text: "+", Icon: true, Appearance: string(button.AppearanceOutline)},
		Story{Name: "wrapper", Text: "Wrap", Wrapper: "custom-tag", Link: true},
	)
	return &Catalogue{Stories: out, LoadedAt: time.Now()}
}

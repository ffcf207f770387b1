package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"fstx-go/internal/fstx"
)

// Plan is a declarative transaction: an ordered list of steps applied
// all-or-nothing by `fstx apply`.
type Plan struct {
	Description string `toml:"description,omitempty"`
	Steps       []Step `toml:"step"`
}

// Step describes one operation of a plan. Action is one of the operation
// kind names; Dest applies to copy and move actions, Content to write and
// append actions.
type Step struct {
	Action  string `toml:"action"`
	Path    string `toml:"path"`
	Dest    string `toml:"dest,omitempty"`
	Content string `toml:"content,omitempty"`
}

// stepShape describes which fields an action requires beyond Path.
var stepShape = map[string]struct{ dest, content bool }{
	fstx.KindCreateFile:      {},
	fstx.KindCreateDirectory: {},
	fstx.KindWriteFile:       {content: true},
	fstx.KindAppendFile:      {content: true},
	fstx.KindCopyFile:        {dest: true},
	fstx.KindCopyDirectory:   {dest: true},
	fstx.KindMoveFile:        {dest: true},
	fstx.KindMoveDirectory:   {dest: true},
	fstx.KindDeleteFile:      {},
	fstx.KindDeleteDirectory: {},
}

// ReadPlanFromFile reads and validates a Plan from the specified file path.
func ReadPlanFromFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()

	var plan Plan
	if _, err := toml.NewDecoder(f).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", path, err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &plan, nil
}

// Validate checks that every step names a known action and carries the
// fields that action requires.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}

	for i, step := range p.Steps {
		shape, ok := stepShape[step.Action]
		if !ok {
			return fmt.Errorf("step %d: unknown action %q", i, step.Action)
		}
		if step.Path == "" {
			return fmt.Errorf("step %d (%s): path is required", i, step.Action)
		}
		if shape.dest && step.Dest == "" {
			return fmt.Errorf("step %d (%s): dest is required", i, step.Action)
		}
		if !shape.dest && step.Dest != "" {
			return fmt.Errorf("step %d (%s): dest is not allowed", i, step.Action)
		}
		if !shape.content && step.Content != "" {
			return fmt.Errorf("step %d (%s): content is not allowed", i, step.Action)
		}
	}
	return nil
}

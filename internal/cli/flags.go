package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/ryijy/internal/image"
	"github.com/spf13/pflag"
)

// choiceValue is a string flag restricted to a fixed set of values.
type choiceValue struct {
	value   *string
	choices []string
}

var _ pflag.Value = (*choiceValue)(nil)

func newChoiceValue(p *string, def string, choices ...string) *choiceValue {
	*p = def
	return &choiceValue{value: p, choices: choices}
}

func (v *choiceValue) String() string {
	if v.value == nil {
		return ""
	}
	return *v.value
}

func (v *choiceValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(v.choices, s) {
		return fmt.Errorf("must be one of: %s", strings.Join(v.choices, ", "))
	}
	*v.value = s
	return nil
}

func (v *choiceValue) Type() string {
	return strings.Join(v.choices, "|")
}

// aspectValue parses a W:H knot aspect ratio.
type aspectValue struct {
	aspect *image.Aspect
}

var _ pflag.Value = (*aspectValue)(nil)

func newAspectValue(p *image.Aspect, def image.Aspect) *aspectValue {
	*p = def
	return &aspectValue{aspect: p}
}

func (v *aspectValue) String() string {
	if v.aspect == nil {
		return ""
	}
	return v.aspect.String()
}

func (v *aspectValue) Set(s string) error {
	a, err := image.ParseAspect(s)
	if err != nil {
		return err
	}
	*v.aspect = a
	return nil
}

func (v *aspectValue) Type() string {
	return "W:H"
}

// kernelChoices lists the pixelation kernels as flag values.
func kernelChoices() []string {
	kernels := image.ValidKernels()
	out := make([]string, len(kernels))
	for i, k := range kernels {
		out[i] = string(k)
	}
	return out
}

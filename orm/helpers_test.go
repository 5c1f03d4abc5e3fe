package orm

import (
	"github.com/iov-one/vault/errors"
)

// Counter is a simple model used by the tests.
type Counter struct {
	Count int64
	Tags  []string
}

var _ Model = (*Counter)(nil)

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidModel, "negative count")
	}
	return nil
}

func (c *Counter) Copy() Model {
	cpy := *c
	cpy.Tags = append([]string(nil), c.Tags...)
	return &cpy
}

// Label is another model, used to test type mismatches.
type Label struct {
	Text string
}

func (l *Label) Validate() error { return nil }
func (l *Label) Copy() Model     { return &Label{Text: l.Text} }

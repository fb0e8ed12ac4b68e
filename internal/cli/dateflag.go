package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/pflag"
)

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// dateValue is a pflag.Value for calendar dates. It accepts YYYY-MM-DD,
// RFC3339, or English phrases such as "next monday" or "in 2 weeks"
// resolved against now.
type dateValue struct {
	field string
	now   func() time.Time
	t     *time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(field string, now func() time.Time, t *time.Time) *dateValue {
	return &dateValue{field: field, now: now, t: t}
}

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return domain.FormatDate(*d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := parseDateArg(d.field, s, d.now())
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

func (d *dateValue) Type() string { return "date" }

func parseDateArg(field, s string, base time.Time) (time.Time, error) {
	t, err := domain.ParseDate(field, s)
	if err == nil {
		return t, nil
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || s == "" {
		return time.Time{}, err
	}

	r, perr := dateParser.Parse(s, base)
	if perr != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", field, s, perr)
	}
	if r == nil {
		return time.Time{}, err
	}
	return domain.NormalizeDate(r.Time), nil
}

// dateFlag registers a date flag bound to t.
func dateFlag(flags *pflag.FlagSet, t *time.Time, name, field, usage string) {
	flags.Var(newDateValue(field, time.Now, t), name, usage+" (YYYY-MM-DD or e.g. \"next monday\")")
}

// SPDX-License-Identifier: GPL-3.0-or-later

package confopt

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Duration accepts Go duration strings ("5m") and plain seconds ("300", "1.5") in config files.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return d.Duration().String()
}

// Seconds returns the duration in whole seconds, rounded up.
// Server-side timeouts (GET_LOCK) only take integer seconds.
func (d Duration) Seconds() int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Ceil(d.Duration().Seconds()))
}

func ParseDuration(s string) (Duration, error) {
	if v, err := time.ParseDuration(s); err == nil {
		return Duration(v), nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(time.Duration(v) * time.Second), nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Duration(v * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("unparsable duration format '%s'", s)
}

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string

	if err := unmarshal(&s); err != nil {
		return err
	}

	v, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	seconds := float64(d) / float64(time.Second)
	return seconds, nil
}

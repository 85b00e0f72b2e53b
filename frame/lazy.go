// Copyright 2025 Sample Data Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"context"

	"github.com/stockparfait/errors"
)

// Op is a post-read correction applied to a materialized frame, such as
// re-imposing a categorical ordering that a reader does not preserve.
type Op func(*Frame) error

// Lazy is a deferred table load: nothing is read until Collect. Pending ops
// run after the source materializes, in registration order.
type Lazy struct {
	source func(context.Context) (*Frame, error)
	ops    []Op
}

// NewLazy wraps a source function into a lazy frame.
func NewLazy(source func(context.Context) (*Frame, error)) *Lazy {
	return &Lazy{source: source}
}

// With returns a copy of the lazy frame with op appended. The builder methods
// always copy, leaving the original intact.
func (l *Lazy) With(op Op) *Lazy {
	l2 := Lazy{source: l.source}
	l2.ops = make([]Op, len(l.ops), len(l.ops)+1)
	copy(l2.ops, l.ops)
	l2.ops = append(l2.ops, op)
	return &l2
}

// Collect reads the source and applies the pending ops.
func (l *Lazy) Collect(ctx context.Context) (*Frame, error) {
	f, err := l.source(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "failed to materialize lazy frame")
	}
	for i, op := range l.ops {
		if err := op(f); err != nil {
			return nil, errors.Annotate(err, "failed to apply deferred op %d", i)
		}
	}
	return f, nil
}

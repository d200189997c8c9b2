// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvariantError reports a failure of one of the state invariants that must
// hold after every instruction, or a policy invoked with no occupied frame
// to evict from. It is always fatal to the session that produced it.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string {
	return "internal invariant violation: " + e.msg
}

func invariantViolation(format string, args ...interface{}) error {
	return errors.WithStack(&InvariantError{msg: fmt.Sprintf(format, args...)})
}

// IsInvariantViolation reports whether err is (or wraps) an InvariantError.
func IsInvariantViolation(err error) bool {
	_, ok := errors.Cause(err).(*InvariantError)
	return ok
}

// ErrEmptyRAM is returned by a policy asked to pick a victim with no
// occupied frame. Reaching a policy implies RAM is full, so this signals an
// engine bug, not a workload problem; callers should treat it as an
// InvariantError.
var ErrEmptyRAM = invariantViolation("policy invoked with no occupied frame to evict")

// ParseWarning reports an unrecognised line in an instruction file. Parsing
// continues past a ParseWarning; it is never returned as a fatal error.
type ParseWarning struct {
	Line int
	Text string
}

func (w ParseWarning) Error() string {
	return fmt.Sprintf("line %d: unrecognized instruction %q", w.Line, w.Text)
}

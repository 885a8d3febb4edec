// Copyright 2025 Kadir Pekel
//
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

package letter

import (
	"errors"
	"fmt"
)

// ErrNoData reports that the data store holds no usable record for an
// account code.
var ErrNoData = errors.New("no data for account")

// FieldDerivationError reports a letter field that cannot be derived
// because its source column is null or blank.
type FieldDerivationError struct {
	Code  string
	Field string
}

func (e *FieldDerivationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("cannot derive %q: source value is missing", e.Field)
	}
	return fmt.Sprintf("account %s: cannot derive %q: source value is missing", e.Code, e.Field)
}

// IsAccountFailure reports whether err only affects the account being
// generated, as opposed to the whole run.
func IsAccountFailure(err error) bool {
	var fieldErr *FieldDerivationError
	return errors.Is(err, ErrNoData) || errors.As(err, &fieldErr)
}

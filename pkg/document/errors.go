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

package document

import "fmt"

// TemplateStructureError is returned when a template cannot be read or has
// no usable text containers. Every letter shares one template, so callers
// treat it as fatal for a whole batch.
type TemplateStructureError struct {
	Path   string
	Reason string
	Err    error
}

func (e *TemplateStructureError) Error() string {
	name := e.Path
	if name == "" {
		name = "document"
	}
	if e.Err != nil {
		return fmt.Sprintf("template %s: %s: %v", name, e.Reason, e.Err)
	}
	return fmt.Sprintf("template %s: %s", name, e.Reason)
}

func (e *TemplateStructureError) Unwrap() error {
	return e.Err
}

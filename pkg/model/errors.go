// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// ValidationError reports a §3.2 invariant violation on an ExportRecord.
// C7 drops the offending record and records the error; it never aborts
// the run.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func errEmptyField(field string) error {
	return &ValidationError{Reason: fmt.Sprintf("record is missing required field %q", field)}
}

func errMemberWithoutParent(kind Kind, cppName string) error {
	return &ValidationError{Reason: fmt.Sprintf("member record %q of kind %q has no parent_class", cppName, kind)}
}

func errInconsistentQualifiedName(qualified, segment string) error {
	return &ValidationError{Reason: fmt.Sprintf("qualified_name %q does not contain expected segment %q", qualified, segment)}
}

func errPropertyWithoutAccessor(cppName string) error {
	return &ValidationError{Reason: fmt.Sprintf("property %q has neither getter nor setter", cppName)}
}

func hasNamespacePrefix(qualified, ns string) bool {
	return strings.HasPrefix(qualified, ns)
}

func containsSegment(qualified, segment string) bool {
	for _, part := range strings.Split(qualified, "::") {
		if part == segment {
			return true
		}
	}
	return false
}

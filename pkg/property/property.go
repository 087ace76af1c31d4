// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package property pairs getter/setter method records into property
// records (C5).
package property

import (
	"strings"

	"github.com/zeus-cpp/lua-binding-generator/pkg/model"
)

// Method is the subset of a method record's facts C5 needs. It is
// decoupled from model.ExportRecord so this package can be unit
// tested without constructing full records.
type Method struct {
	CppName        string
	ReturnType     string
	ParameterCount int
}

// Candidate is a recognized getter or setter, with the derived
// property name it contributes to.
type candidate struct {
	propertyName string
	isGetter     bool
	isSetter     bool
	method       Method
}

// Recognize scans methods belonging to one class and returns one
// property record per getter found, paired with a matching setter when
// present. Methods that are neither getters nor setters are ignored;
// getters/setters that don't pair still produce a (readonly or
// setter-only/no-property) outcome per spec.md §4.5.
func Recognize(methods []Method) []*model.ExportRecord {
	getters := make(map[string]candidate)
	var getterOrder []string
	setters := make(map[string]candidate)

	for _, m := range methods {
		if c, ok := classify(m); ok {
			if c.isGetter {
				if _, exists := getters[c.propertyName]; !exists {
					getterOrder = append(getterOrder, c.propertyName)
				}
				getters[c.propertyName] = c
			} else if c.isSetter {
				setters[c.propertyName] = c
			}
		}
	}

	var out []*model.ExportRecord
	for _, name := range getterOrder {
		g := getters[name]
		rec := &model.ExportRecord{
			Kind:         model.KindProperty,
			CppName:      name,
			GetterMethod: g.method.CppName,
		}
		if s, ok := setters[name]; ok {
			rec.PropertyAccess = model.AccessReadWrite
			rec.SetterMethod = s.method.CppName
		} else {
			rec.PropertyAccess = model.AccessReadOnly
		}
		out = append(out, rec)
	}
	return out
}

// classify determines whether m reads as a getter or setter and, if
// so, the property name it implies.
func classify(m Method) (candidate, bool) {
	name := m.CppName
	switch {
	case strings.HasPrefix(name, "get") && len(name) > 3 && m.ReturnType != "void" && m.ReturnType != "":
		return candidate{propertyName: lowerFirst(name[3:]), isGetter: true, method: m}, true
	case strings.HasPrefix(name, "is") && len(name) > 2 && m.ReturnType != "void" && m.ReturnType != "":
		return candidate{propertyName: lowerFirst(name[2:]), isGetter: true, method: m}, true
	case strings.HasPrefix(name, "set") && len(name) > 3 && m.ParameterCount == 1:
		return candidate{propertyName: lowerFirst(name[3:]), isSetter: true, method: m}, true
	}
	return candidate{}, false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0]+('a'-'A')) + s[1:]
	}
	return s
}

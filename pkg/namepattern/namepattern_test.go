/*
 * SPDX-FileCopyrightText: Copyright (c) 2026 Rackforge, Inc. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package namepattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackforge/topology/pkg/common/errors"
)

func TestExpand(t *testing.T) {
	testCases := map[string]struct {
		pattern  string
		expected []string
	}{
		"literal with no range": {
			pattern:  "eth0",
			expected: []string{"eth0"},
		},
		"empty pattern": {
			pattern:  "",
			expected: []string{""},
		},
		"single range": {
			pattern:  "ge-0/0/[0-3]",
			expected: []string{"ge-0/0/0", "ge-0/0/1", "ge-0/0/2", "ge-0/0/3"},
		},
		"single element range": {
			pattern:  "vcp-[2-2]",
			expected: []string{"vcp-2"},
		},
		"range with trailing literal": {
			pattern:  "psu[0-1]-inlet",
			expected: []string{"psu0-inlet", "psu1-inlet"},
		},
		"nested ranges outer varies slowest": {
			pattern: "xe-0/[0-1]/[0-1]",
			expected: []string{
				"xe-0/0/0", "xe-0/0/1",
				"xe-0/1/0", "xe-0/1/1",
			},
		},
		"leading zeros collapse": {
			pattern:  "port[08-10]",
			expected: []string{"port8", "port9", "port10"},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			names, err := Expand(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, names)
		})
	}
}

func TestExpandMalformed(t *testing.T) {
	testCases := map[string]string{
		"start greater than end": "ge-0/0/[3-1]",
		"missing dash":           "ge-0/0/[3]",
		"non-integer bound":      "ge-0/0/[a-b]",
		"negative bound":         "ge-0/0/[-1-3]",
		"unclosed bracket":       "ge-0/0/[0-3",
		"stray closing bracket":  "ge-0/0/0-3]",
		"nested unclosed":        "xe-[0-1]/[0-7",
	}

	for name, pattern := range testCases {
		t.Run(name, func(t *testing.T) {
			names, err := Expand(pattern)
			assert.Nil(t, names)

			var perr *errors.PatternError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, pattern, perr.Pattern)
		})
	}
}

func TestPatternCount(t *testing.T) {
	testCases := map[string]struct {
		pattern  string
		expected int
	}{
		"literal":        {pattern: "eth0", expected: 1},
		"single range":   {pattern: "ge-0/0/[0-3]", expected: 4},
		"nested ranges":  {pattern: "xe-0/[0-3]/[0-7]", expected: 32},
		"triple nesting": {pattern: "et-[0-1]/[0-1]/[0-1]", expected: 8},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			p, err := Parse(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p.Count())
			assert.Len(t, p.Expand(), tc.expected)
		})
	}
}

func TestParseSegments(t *testing.T) {
	p, err := Parse("xe-0/[0-1]/[0-7]-lag")
	require.NoError(t, err)

	require.Len(t, p.Segments, 2)
	assert.Equal(t, Segment{Lead: "xe-0/", Start: 0, End: 1}, p.Segments[0])
	assert.Equal(t, Segment{Lead: "/", Start: 0, End: 7}, p.Segments[1])
	assert.Equal(t, "-lag", p.Tail)
}

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

// Package namepattern expands compact component name patterns into ordered
// name lists. A pattern is literal text interleaved with bracketed numeric
// ranges:
//
//	"ge-0/0/[0-3]"    => ge-0/0/0, ge-0/0/1, ge-0/0/2, ge-0/0/3
//	"xe-0/[0-1]/[0-7]" => xe-0/0/0 ... xe-0/0/7, xe-0/1/0 ... xe-0/1/7
//
// The outermost range varies slowest. Expansion produces names only; it
// performs no uniqueness checking and no I/O.
package namepattern

import (
	"strconv"
	"strings"

	"github.com/rackforge/topology/pkg/common/errors"
)

// Segment is one (literal, range) pair of a parsed pattern. Lead is the
// literal text preceding the bracketed range [Start-End].
type Segment struct {
	Lead  string
	Start int
	End   int
}

// Pattern is the parsed form of a name pattern: zero or more range
// segments followed by trailing literal text.
type Pattern struct {
	Segments []Segment
	Tail     string
}

// Parse parses a name pattern into its segment list. It fails with a
// PatternError when a range is malformed: unbalanced brackets, non-integer
// bounds, or start greater than end.
func Parse(pattern string) (*Pattern, error) {
	p := &Pattern{}
	rest := pattern

	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			if strings.IndexByte(rest, ']') >= 0 {
				return nil, errors.NewPatternError(pattern, "unbalanced brackets")
			}
			p.Tail = rest
			return p, nil
		}

		lead := rest[:open]
		if strings.IndexByte(lead, ']') >= 0 {
			return nil, errors.NewPatternError(pattern, "unbalanced brackets")
		}

		closing := strings.IndexByte(rest[open:], ']')
		if closing < 0 {
			return nil, errors.NewPatternError(pattern, "unbalanced brackets")
		}

		token := rest[open+1 : open+closing]
		start, end, err := parseRange(pattern, token)
		if err != nil {
			return nil, err
		}

		p.Segments = append(p.Segments, Segment{
			Lead:  lead,
			Start: start,
			End:   end,
		})
		rest = rest[open+closing+1:]
	}
}

func parseRange(pattern, token string) (int, int, error) {
	bounds := strings.SplitN(token, "-", 2)
	if len(bounds) != 2 {
		return 0, 0, errors.NewPatternError(pattern, "range %q is not of the form start-end", token)
	}

	start, err := strconv.Atoi(bounds[0])
	if err != nil || start < 0 {
		return 0, 0, errors.NewPatternError(pattern, "range bound %q is not a non-negative integer", bounds[0])
	}

	end, err := strconv.Atoi(bounds[1])
	if err != nil || end < 0 {
		return 0, 0, errors.NewPatternError(pattern, "range bound %q is not a non-negative integer", bounds[1])
	}

	if start > end {
		return 0, 0, errors.NewPatternError(pattern, "range start %d is greater than end %d", start, end)
	}

	return start, end, nil
}

// Count returns the number of names the pattern expands to, without
// generating them. Callers use this to bound batch sizes up front.
func (p *Pattern) Count() int {
	count := 1
	for _, seg := range p.Segments {
		count *= seg.End - seg.Start + 1
	}

	return count
}

// Expand generates the full ordered name list. The first segment's range
// varies slowest, the last segment's fastest.
func (p *Pattern) Expand() []string {
	names := make([]string, 0, p.Count())

	var walk func(prefix string, segs []Segment)
	walk = func(prefix string, segs []Segment) {
		if len(segs) == 0 {
			names = append(names, prefix+p.Tail)
			return
		}

		seg := segs[0]
		for i := seg.Start; i <= seg.End; i++ {
			walk(prefix+seg.Lead+strconv.Itoa(i), segs[1:])
		}
	}

	walk("", p.Segments)
	return names
}

// Expand parses and expands a pattern in one step. A pattern with no range
// token yields the single literal pattern unchanged.
func Expand(pattern string) ([]string, error) {
	p, err := Parse(pattern)
	if err != nil {
		return nil, err
	}

	return p.Expand(), nil
}

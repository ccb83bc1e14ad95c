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

// Package errors defines the domain error taxonomy of the topology
// subsystem. Every type here is an expected, user-facing outcome that the
// caller redisplays; StorageError is the one infrastructure category and
// always means the whole operation was rolled back.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PatternError reports a malformed name pattern.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

// NewPatternError builds a PatternError for the given pattern.
func NewPatternError(pattern, format string, args ...any) *PatternError {
	return &PatternError{
		Pattern: pattern,
		Reason:  fmt.Sprintf(format, args...),
	}
}

// Conflict is one invalid candidate in a provisioning batch.
type Conflict struct {
	DeviceID uuid.UUID
	Name     string
	Reason   string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s (device %s): %s", c.Name, c.DeviceID, c.Reason)
}

// ValidationConflict reports every invalid candidate in a provisioning
// batch. The list is complete, never truncated to the first failure.
type ValidationConflict struct {
	Conflicts []Conflict
}

func (e *ValidationConflict) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.String())
	}

	return fmt.Sprintf("%d invalid candidate(s): %s",
		len(e.Conflicts), strings.Join(msgs, "; "))
}

// AlreadyConnectedError reports a connect attempt on a port that already
// has a peer.
type AlreadyConnectedError struct {
	PortID uuid.UUID
	PeerID uuid.UUID
}

func (e *AlreadyConnectedError) Error() string {
	return fmt.Sprintf("port %s is already connected to %s", e.PortID, e.PeerID)
}

// NotConnectedError reports a disconnect attempt on an unconnected port.
type NotConnectedError struct {
	PortID uuid.UUID
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("port %s is not connected", e.PortID)
}

// TypeMismatchError reports a connect attempt across port families or
// between two ports of the same asymmetric kind.
type TypeMismatchError struct {
	KindA string
	KindB string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot connect %s to %s", e.KindA, e.KindB)
}

// LayoutConflict reports two devices occupying the same rack unit on the
// same face. It is a data-integrity inconsistency surfaced to the caller,
// never resolved silently.
type LayoutConflict struct {
	RackID  uuid.UUID
	Unit    int
	Face    string
	DeviceA string
	DeviceB string
}

func (e *LayoutConflict) Error() string {
	return fmt.Sprintf("rack %s: devices %s and %s overlap at unit %d (%s face)",
		e.RackID, e.DeviceA, e.DeviceB, e.Unit, e.Face)
}

// NotFoundError reports a lookup miss on a referenced record. Ref is the
// identifier the caller looked up by, usually an ID but a site-qualified
// name for named lookups.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

// StorageError wraps a record-store failure. It is the only fatal
// category; the triggering operation had no partial effect.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError unless it is already a domain
// error, in which case it is returned unchanged. This keeps domain errors
// raised inside a transaction from being reclassified on rollback.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}

	if IsDomainError(err) {
		return err
	}

	return &StorageError{Op: op, Err: err}
}

// IsDomainError returns true if err belongs to the expected, user-facing
// error taxonomy (as opposed to an infrastructure failure).
func IsDomainError(err error) bool {
	var (
		pe *PatternError
		vc *ValidationConflict
		ac *AlreadyConnectedError
		nc *NotConnectedError
		tm *TypeMismatchError
		lc *LayoutConflict
		nf *NotFoundError
	)

	return errors.As(err, &pe) ||
		errors.As(err, &vc) ||
		errors.As(err, &ac) ||
		errors.As(err, &nc) ||
		errors.As(err, &tm) ||
		errors.As(err, &lc) ||
		errors.As(err, &nf)
}

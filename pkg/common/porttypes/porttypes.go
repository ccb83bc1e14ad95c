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

// Package porttypes defines the component kinds a device can carry and the
// port families that constrain which kinds may be connected to each other.
package porttypes

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ComponentKind identifies the kind of a device component.
type ComponentKind int

const (
	ComponentKindUnknown ComponentKind = iota
	ComponentKindConsolePort
	ComponentKindConsoleServerPort
	ComponentKindPowerPort
	ComponentKindPowerOutlet
	ComponentKindInterface
	ComponentKindDeviceBay
)

var componentKindStrings = map[ComponentKind]string{
	ComponentKindUnknown:           "Unknown",
	ComponentKindConsolePort:       "ConsolePort",
	ComponentKindConsoleServerPort: "ConsoleServerPort",
	ComponentKindPowerPort:         "PowerPort",
	ComponentKindPowerOutlet:       "PowerOutlet",
	ComponentKindInterface:         "Interface",
	ComponentKindDeviceBay:         "DeviceBay",
}

// ComponentKinds returns all the supported component kinds.
func ComponentKinds() []ComponentKind {
	return []ComponentKind{
		ComponentKindConsolePort,
		ComponentKindConsoleServerPort,
		ComponentKindPowerPort,
		ComponentKindPowerOutlet,
		ComponentKindInterface,
		ComponentKindDeviceBay,
	}
}

// ComponentKindFromString returns the component kind for the given string.
func ComponentKindFromString(str string) ComponentKind {
	for ck, kindStr := range componentKindStrings {
		if strings.EqualFold(str, kindStr) {
			return ck
		}
	}

	return ComponentKindUnknown
}

// ComponentKindToString returns the string form of the component kind.
func ComponentKindToString(ck ComponentKind) string {
	if str, ok := componentKindStrings[ck]; ok {
		return str
	}

	return componentKindStrings[ComponentKindUnknown]
}

// IsValidComponentKindString returns true if the string names a known
// component kind other than Unknown.
func IsValidComponentKindString(str string) bool {
	return ComponentKindFromString(str) != ComponentKindUnknown
}

func (ck ComponentKind) String() string {
	return ComponentKindToString(ck)
}

func (ck ComponentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(ck.String())
}

func (ck *ComponentKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	*ck = ComponentKindFromString(str)
	return nil
}

// PortFamily groups connectable component kinds. Connections only ever pair
// two ports of the same family.
type PortFamily int

const (
	PortFamilyNone PortFamily = iota
	PortFamilyConsole
	PortFamilyPower
	PortFamilyInterface
)

var portFamilyStrings = map[PortFamily]string{
	PortFamilyNone:      "None",
	PortFamilyConsole:   "Console",
	PortFamilyPower:     "Power",
	PortFamilyInterface: "Interface",
}

func (pf PortFamily) String() string {
	if str, ok := portFamilyStrings[pf]; ok {
		return str
	}

	return portFamilyStrings[PortFamilyNone]
}

// FamilyOf returns the port family a component kind belongs to.
// Device bays are composition, not ports, so they map to PortFamilyNone.
func FamilyOf(ck ComponentKind) PortFamily {
	switch ck {
	case ComponentKindConsolePort, ComponentKindConsoleServerPort:
		return PortFamilyConsole
	case ComponentKindPowerPort, ComponentKindPowerOutlet:
		return PortFamilyPower
	case ComponentKindInterface:
		return PortFamilyInterface
	default:
		return PortFamilyNone
	}
}

// Connectable returns true if the component kind participates in the
// port-connection graph.
func Connectable(ck ComponentKind) bool {
	return FamilyOf(ck) != PortFamilyNone
}

// DependentKind returns the kind that holds the connection reference for an
// asymmetric family (console port points at console server port, power port
// points at power outlet). The symmetric interface family has no dependent
// side and returns ComponentKindUnknown.
func DependentKind(pf PortFamily) ComponentKind {
	switch pf {
	case PortFamilyConsole:
		return ComponentKindConsolePort
	case PortFamilyPower:
		return ComponentKindPowerPort
	default:
		return ComponentKindUnknown
	}
}

// ConnectionStatus is the declared state of a connection.
type ConnectionStatus string

const (
	ConnectionStatusPlanned   ConnectionStatus = "planned"
	ConnectionStatusConnected ConnectionStatus = "connected"
)

// Validate checks the connection status is one of the known values.
func (cs ConnectionStatus) Validate() error {
	switch cs {
	case ConnectionStatusPlanned, ConnectionStatusConnected:
		return nil
	default:
		return fmt.Errorf("unknown connection status %q", string(cs))
	}
}
